package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrAlreadyInList is returned when the user already tracks the media item.
	ErrAlreadyInList = fmt.Errorf("already in list: %w", ErrConflict)

	// ErrProviderUnavailable is returned when the metadata provider could not
	// be reached after all retry attempts.
	ErrProviderUnavailable = errors.New("metadata provider unavailable")

	// ErrProviderNotFound is returned when the provider reports that the
	// external id does not exist.
	ErrProviderNotFound = fmt.Errorf("provider: %w", ErrNotFound)

	// ErrUnsupportedMediaType is returned when no fetch strategy exists for
	// the requested (provider, media type) pair.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
