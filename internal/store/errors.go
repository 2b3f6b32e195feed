package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/beesaferoot/ams-store/model"
)

// Wrap converts a gorm error into the module's error vocabulary: missing
// rows become model.ErrNotFound, everything else a *model.StorageError.
// Validation and transition errors pass through unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	var se *model.StorageError
	if model.IsValidation(err) || errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrInvalidTransition) || errors.As(err, &se) {
		return err
	}
	return &model.StorageError{Op: op, Err: err}
}
