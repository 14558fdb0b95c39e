package domain

import "errors"

// Common validation errors shared across domain entities.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidID    = errors.New("invalid ID format")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries the field that failed validation alongside a
// human-readable reason. It wraps a sentinel so callers can classify it
// with errors.Is while still surfacing the field-specific message.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel to support errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
