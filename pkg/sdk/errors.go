package sdk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoContent is returned when a tool result contains no content items.
var ErrNoContent = errors.New("velocity: empty tool result")

// ToolError is returned when a tool call returns an error result. Tool
// errors describe the request, so they are never retried.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("velocity: tool %s: %s", e.Tool, e.Message)
}

// IsDeveloperNotFound reports whether err is the server rejecting a developer
// name that owns no tickets.
func IsDeveloperNotFound(err error) bool {
	var te *ToolError
	return errors.As(err, &te) && strings.HasPrefix(te.Message, "developer not found")
}

// IsNotInitialized reports whether err is the server reporting a workspace
// that has not been set up with velocity init.
func IsNotInitialized(err error) bool {
	var te *ToolError
	return errors.As(err, &te) && strings.Contains(te.Message, "velocity init")
}
