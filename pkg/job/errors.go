package job

import (
	"errors"
	"fmt"

	"github.com/williamokano/backupgen/pkg/coerce"
)

var (
	ErrTypeMismatch      = coerce.ErrTypeMismatch
	ErrMissingRequired   = errors.New("missing required option")
	ErrInvalidEnum       = errors.New("invalid enum value")
	ErrInvalidRange      = errors.New("value out of range")
	ErrMutuallyExclusive = errors.New("mutually exclusive configuration")
)

// ValidationError is the single failure returned by Validate. Error returns
// the exact message; Unwrap returns one of the sentinels above.
type ValidationError struct {
	Kind    error
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

func fail(kind error, field, format string, args ...interface{}) error {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError extracts a *ValidationError from err
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
