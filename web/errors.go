package web

import (
	"errors"
	"fmt"
)

// ValidationError marks a handler failure caused by request payload
// validation. The processing stage maps it to a 400 response instead of the
// generic 500.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// Validationf returns a ValidationError with a formatted reason.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
