package orm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row matches a record's key.
	ErrNotFound = errors.New("orm: no row matches key")

	// ErrConstraint is matched by every *ConstraintError.
	ErrConstraint = errors.New("orm: constraint violation")

	// ErrAlreadyStored is returned when inserting an entity whose auto key is set.
	ErrAlreadyStored = errors.New("orm: record already stored")

	// ErrNotStored is returned when updating or deleting an entity whose auto key is unset.
	ErrNotStored = errors.New("orm: record not stored")
)

// ConstraintError reports a statement rejected by a database constraint.
type ConstraintError struct {
	Op    string
	Table string
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s %s: constraint violation: %v", e.Op, e.Table, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConstraint) true for any ConstraintError.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}
