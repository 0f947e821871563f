package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist or is not
	// visible under the caller's tenant scope. The two cases are
	// deliberately indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrAgentOutOfScope is returned when a shift operation names an
	// agent that belongs to a different tenant.
	ErrAgentOutOfScope = errors.New("agent does not belong to your tenant")
)

// ValidationError reports malformed caller input. It is surfaced to the
// caller as a bad request and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
