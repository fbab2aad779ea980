package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFile is returned when an import document does not belong to this app/module.
	ErrInvalidFile = errors.New("invalid file")

	// ErrUnsupportedModule is returned for export/import of a domain this engine does not own.
	ErrUnsupportedModule = errors.New("unsupported module")

	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNotFound is reported by transports for reads of unknown ids. Mutations on
	// unknown ids are no-ops and never return it.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a missing or invalid field. It is returned before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
