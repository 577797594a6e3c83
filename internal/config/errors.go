package config

import (
	"errors"
	"fmt"
)

// ErrInvalidValue indicates a setting with an unacceptable value.
var ErrInvalidValue = errors.New("invalid config value")

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Field is the dotted setting path that failed validation.
	Field string
	// Value is the invalid value.
	Value any
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns ErrInvalidValue so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}

// EnvError reports an environment variable whose value does not fit the
// setting it names.
type EnvError struct {
	Name  string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("environment variable %s=%q: %v", e.Name, e.Value, e.Err)
}

func (e *EnvError) Unwrap() error {
	return e.Err
}
