package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the handlers map to HTTP codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrUpstream         = errors.New("upstream unavailable")
)

// ValidationError reports out-of-range or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundf wraps ErrNotFound with a description of what was missing.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Upstreamf wraps ErrUpstream, used when the store or the broker fails.
func Upstreamf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUpstream)...)
}
