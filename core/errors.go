package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewFieldError returns a ValidationError reporting `msg` on a single field.
// An empty field yields a field-less error.
func NewFieldError(field, msg string) error {
	if field == "" {
		return &ValidationError{Err: errors.New(msg)}
	}
	return &ValidationError{
		Err:    errors.New(msg),
		Fields: []FieldError{{Field: field, Error: msg}},
	}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// Field returns the name of the first offending field, if any.
func (err ValidationError) Field() string {
	if len(err.Fields) == 0 {
		return ""
	}
	return err.Fields[0].Field
}

// AsValidationError unwraps err down to a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	vErr, ok := errors.Cause(err).(*ValidationError)
	return vErr, ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
