package store

import (
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
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

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrBookNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "book not found",
	}

	ErrBookExists = &Error{
		Code:    http.StatusConflict,
		Message: "book already exists",
	}

	ErrShelfNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "shelf not found",
	}

	ErrShelfExists = &Error{
		Code:    http.StatusConflict,
		Message: "shelf already exists",
	}

	ErrShelfProtected = &Error{
		Code:    http.StatusForbidden,
		Message: "the default shelf cannot be deleted",
	}

	ErrAnnotationNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "annotation not found",
	}

	ErrBlobNotFound = &Error{
		Code:    http.StatusUnprocessableEntity,
		Message: "document data is missing",
	}

	ErrCoverNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "cover not found",
	}

	ErrSessionNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "reading session not found",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)
