package model

import (
	"errors"
	"fmt"
)

// Validation failures. Each is raised before a write and aborts it.
var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidTime          = errors.New("invalid time")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidEnumValue     = errors.New("invalid enum value")
	ErrInvalidEmail         = errors.New("invalid email address")
)

// Store-level failures.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUniquenessViolation is returned when a write would duplicate a
	// unique key (an event slug or an (event, email) booking pair).
	ErrUniquenessViolation = errors.New("uniqueness violation")

	// ErrReferentialIntegrity is returned when a booking references an
	// event that does not exist.
	ErrReferentialIntegrity = errors.New("referenced event does not exist")

	// ErrSlugExhausted is returned when no free slug was found within the
	// configured number of attempts.
	ErrSlugExhausted = errors.New("no free slug available")

	// ErrStoreUnavailable marks transient connection failures. A fresh
	// request may succeed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError ties a validation failure to the field that caused it.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// NewFieldError builds a FieldError wrapping one of the validation sentinels.
func NewFieldError(field string, err error, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return e.Err }
