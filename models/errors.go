package models

import (
	"errors"
	"fmt"
)

// ErrEventNotFound is returned when no event matches a code or id.
var ErrEventNotFound = errors.New("event not found")

// ValidationError describes one template field that was malformed or missing
// and has been replaced by its default.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("template field %s: %s", e.Field, e.Reason)
}

// SaveError wraps a failure of the template persistence collaborator.
type SaveError struct {
	EventID string
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save template for event %s: %v", e.EventID, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
