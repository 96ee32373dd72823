package booking

import (
	"strings"
)

// ValidationError carries every admission failure for a booking attempt.
// It is always recoverable by correcting input and is never sent to a courier.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewValidationError builds a ValidationError from accumulated messages.
func NewValidationError(errs []string) *ValidationError {
	return &ValidationError{Errors: errs}
}
