package storage

import (
	"fmt"
	"strconv"
)

// Options wraps the backend-specific option map. Values may come from YAML
// (int, bool), JSON (float64) or the environment (string).
type Options map[string]interface{}

// String returns a string option; required options fail when missing or empty
func (o Options) String(key string, required bool) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required option %s: %w", key, ErrInvalidConfig)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %s must be a string: %w", key, ErrInvalidConfig)
	}
	if required && s == "" {
		return "", fmt.Errorf("missing required option %s: %w", key, ErrInvalidConfig)
	}
	return s, nil
}

// Int returns an integer option or fallback when missing
func (o Options) Int(key string, fallback int) (int, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("option %s must be an integer: %w", key, ErrInvalidConfig)
}

// Bool returns a boolean option or fallback when missing
func (o Options) Bool(key string, fallback bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed, nil
		}
	}
	return false, fmt.Errorf("option %s must be a boolean: %w", key, ErrInvalidConfig)
}
