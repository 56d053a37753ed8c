package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code and message, so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrCopyNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "book not found",
	}

	ErrInvalidField = &Error{
		Code:    http.StatusBadRequest,
		Message: "field is not editable",
	}

	ErrRequiredField = &Error{
		Code:    http.StatusBadRequest,
		Message: "title and author cannot be empty",
	}

	ErrFieldType = &Error{
		Code:    http.StatusBadRequest,
		Message: "value does not match the field type",
	}
)
