// Package apperr defines the error taxonomy services surface to handlers.
// Each kind maps onto one HTTP status; handlers pick the status with
// errors.As and never inspect message text.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a typed application error with a human-readable reason
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BadRequest flags an invalid request or business-rule violation
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// BadRequestWrap keeps the underlying cause available to errors.Is
func BadRequestWrap(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}

// Unauthorized flags missing or invalid credentials
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden flags an authenticated request for something it may not touch
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound flags a missing resource
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict flags an operation that would duplicate existing state
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Status maps an error to its HTTP status code. Unclassified errors are
// treated as internal.
func Status(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
