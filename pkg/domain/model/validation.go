package model

import "strings"

// ValidationError carries the full list of human-readable validation
// messages for an input, so callers can render them all at once instead of
// fixing one field at a time.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, ", ")
}

func newValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
