// Package coerce turns loosely typed option values into the concrete shapes
// the validator stores. Every failure is a *MismatchError.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/williamokano/backupgen/pkg/params"
)

// ErrTypeMismatch is the sentinel wrapped by every MismatchError
var ErrTypeMismatch = errors.New("type mismatch")

// MismatchError carries the offending value and the expected shape
type MismatchError struct {
	Value    params.Value
	Expected string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s is not %s", e.Value.Inspect(), e.Expected)
}

func (e *MismatchError) Unwrap() error { return ErrTypeMismatch }

func mismatch(v params.Value, expected string) error {
	return &MismatchError{Value: v, Expected: expected}
}

// StringList accepts a single string or a sequence of strings
func StringList(v params.Value) ([]string, error) {
	switch v.Kind() {
	case params.KindScalar:
		s, ok := v.AsString()
		if !ok {
			return nil, mismatch(v, "a string or an array of strings")
		}
		return []string{s}, nil
	case params.KindSequence:
		items := v.Items()
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.AsString()
			if !ok {
				return nil, mismatch(v, "a string or an array of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, mismatch(v, "a string or an array of strings")
	}
}

// Bool accepts boolean literals and the strings "true" and "false"
func Bool(v params.Value) (bool, error) {
	raw, ok := v.Scalar()
	if !ok {
		return false, mismatch(v, "a boolean")
	}
	switch b := raw.(type) {
	case bool:
		return b, nil
	case string:
		switch b {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, mismatch(v, "a boolean")
}

// Int accepts integers, integral floats and strings that parse fully as integers
func Int(v params.Value) (int, error) {
	raw, ok := v.Scalar()
	if !ok {
		return 0, mismatch(v, "an integer")
	}
	switch n := raw.(type) {
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, mismatch(v, "an integer")
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, mismatch(v, "an integer")
		}
		return i, nil
	}
	return 0, mismatch(v, "an integer")
}

// Port is Int constrained to 1-65535
func Port(v params.Value) (int, error) {
	p, err := Int(v)
	if err != nil {
		return 0, mismatch(v, "a port number")
	}
	if p < 1 || p > 65535 {
		return 0, mismatch(v, "a port number")
	}
	return p, nil
}

// String accepts string scalars only
func String(v params.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", mismatch(v, "a string")
	}
	return s, nil
}

var (
	emailValidator     *validator.Validate
	emailValidatorOnce sync.Once
)

func getEmailValidator() *validator.Validate {
	emailValidatorOnce.Do(func() {
		emailValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return emailValidator
}

// Email requires a string of the shape local@domain
func Email(v params.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", mismatch(v, "a valid email address")
	}
	if !strings.Contains(s, "@") {
		return "", mismatch(v, "a valid email address")
	}
	if err := getEmailValidator().Var(s, "required,email"); err != nil {
		return "", mismatch(v, "a valid email address")
	}
	return s, nil
}
