package service

import (
	"alcyxob/fitness-backend/internal/domain"
	"errors"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError is returned when the input cannot produce a valid record.
// errors.Is(err, ErrValidationFailed) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// fromDomain lifts a domain schema violation into a ValidationError and
// passes any other error through.
func fromDomain(err error) error {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return err
}
