package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidLabel rejects confirmation actions outside the known set.
var ErrInvalidLabel = errors.New("invalid confirmation label")

type validationError struct {
	Field  string
	Reason string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &validationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *validationError
	return errors.As(err, &ve)
}
