package board

import (
	"errors"
	"fmt"

	"github.com/baiirun/board/internal/model"
)

var (
	// ErrValidation marks a request with a missing or malformed field.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown card or project.
	ErrNotFound = model.ErrNotFound
	// ErrInvalidCard marks a stored card that cannot be processed.
	ErrInvalidCard = errors.New("invalid card")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalid(field string, value any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("is invalid: %v", value)}
}
