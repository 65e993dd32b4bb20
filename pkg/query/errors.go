package query

import (
	"errors"
	"fmt"
)

// ValidationError reports a statistics parameter that cannot be compiled.
// Dimensions, metrics and filter keys end up in SQL text, so anything outside
// the whitelist is rejected instead of ignored.
type ValidationError struct {
	Param  string
	Value  string
	Reason string
}

func newValidationError(param, value, reason string) *ValidationError {
	return &ValidationError{Param: param, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Reason)
}

// IsValidationError checks if the error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
