// Package models contains domain models for cinedb.
package models

import "errors"

var (
	// ErrNotFound is returned when a primary-key lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyStored is returned when creating a record that already has an ID.
	ErrAlreadyStored = errors.New("record is already stored")

	// ErrNotStored is returned when updating or deleting a record without an ID.
	ErrNotStored = errors.New("record is not stored yet")
)

// ValidationError reports a write rejected by a database constraint
// (uniqueness, foreign key, check).
type ValidationError struct {
	Msg string
	Err error
}

// NewValidationError wraps err as a validation error with a user-facing message.
func NewValidationError(msg string, err error) *ValidationError {
	return &ValidationError{Msg: msg, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
