package mealplans

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected request. The plan store is never
// touched once one of these is raised.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent resource. An ownership mismatch is
// reported identically to true absence.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func newNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err as a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var typed *ValidationError
	ok := errors.As(err, &typed)
	return typed, ok
}

// AsNotFoundError unwraps err as a *NotFoundError.
func AsNotFoundError(err error) (*NotFoundError, bool) {
	var typed *NotFoundError
	ok := errors.As(err, &typed)
	return typed, ok
}
