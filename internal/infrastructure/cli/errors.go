package cli

import (
	"errors"
	"fmt"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/config"
	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/naineet-code/engineer-velocity-view/pkg/ingest"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var transErr *ticket.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("Ticket '%s' is '%s'; run 'velocity queue' to see its current status", transErr.TicketID, transErr.From),
			err,
		)
	}

	var conflictErr *ticket.ConflictError
	if errors.As(err, &conflictErr) {
		return NewCLIError("tickets changed on disk", "Another command updated the working set; re-run the command", err)
	}

	var schemaErr *ingest.SchemaError
	if errors.As(err, &schemaErr) {
		return NewCLIError("import file does not match the ticket schema", "Fix the listed fields and import again", err)
	}

	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return NewCLIError("workspace not initialized", "Run 'velocity init' and then 'velocity import'", err)
	case errors.Is(err, ticket.ErrTicketNotFound):
		return NewCLIError("ticket not found", "Run 'velocity queue' to list ticket ids", err)
	case errors.Is(err, application.ErrDeveloperNotFound):
		return NewCLIError("developer not found", "Developer names are case-sensitive; run 'velocity queue' to list them", err)
	case errors.Is(err, config.ErrInvalidConfig):
		return NewCLIError("invalid configuration", "Check .velocity/config.yaml and the VELOCITY_NOW / VELOCITY_TZ variables", err)
	case errors.Is(err, ingest.ErrNoHeader), errors.Is(err, ingest.ErrEmptyInput):
		return NewCLIError("nothing to import", "Check that the file is a ticket export with a header row", err)
	}

	return err
}
