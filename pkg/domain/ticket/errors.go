package ticket

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeEffort indicates a ticket carries a negative effort estimate.
	ErrNegativeEffort = errors.New("effort must not be negative")

	// ErrNegativeDaysBlocked indicates a negative blocked-day counter.
	ErrNegativeDaysBlocked = errors.New("days blocked must not be negative")

	// ErrTicketNotFound indicates the ticket id is not in the working set.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrInvalidTransition indicates the lifecycle event is not allowed.
	ErrInvalidTransition = errors.New("invalid ticket transition")
)

// ValidationError names the ticket whose fields broke the input contract.
type ValidationError struct {
	TicketID string
	Field    string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ticket %s: %s: %v", e.TicketID, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransitionError provides details about a rejected lifecycle event.
type TransitionError struct {
	TicketID string
	From     string
	Event    string
}

func (e *TransitionError) Error() string {
	return "cannot " + e.Event + " ticket " + e.TicketID + " while it is " + e.From
}

// Is allows errors.Is to work with TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
