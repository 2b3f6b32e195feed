package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by identifier matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a lifecycle method is called from
	// a status that does not allow it.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError identifies the field that failed a constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// StorageError wraps a failure reported by the database or a stored procedure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func transitionError(entity string, id uint, from any, action string) error {
	return fmt.Errorf("%w: cannot %s %s %d in status %v", ErrInvalidTransition, action, entity, id, from)
}
