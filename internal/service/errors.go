package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStage      = errors.New("invalid renewal stage")
	ErrNoActiveRenewal   = errors.New("no active renewal")
	ErrValidation        = errors.New("validation failed")
	ErrPersistence       = errors.New("persistence failure")
)

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// lookupError maps a missing row to target and any other failure to
// ErrPersistence.
func lookupError(err error, target error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", target, message)
	}
	return persistenceError(err)
}
