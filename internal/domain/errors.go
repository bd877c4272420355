package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every error returned from the Parse functions.
var ErrValidation = errors.New("invalid subscriber data")

// ValidationError describes why a raw input was rejected
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid subscriber %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
