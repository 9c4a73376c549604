// Package apperrors defines the application error type returned by handlers
// and its mapping onto HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an Error.
type Type uint

const (
	TypeUnknown Type = iota
	TypeValidation
	TypeAuthentication
	TypeAuthorization
	TypeNotFound
	TypeConflict
	TypeInternal
	TypeExternal
	TypeRateLimit
	TypeUnavailable
)

// Error is an error with a client-facing message and a classification.
type Error struct {
	Type    Type
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// StatusCode returns the HTTP status for the error's type.
func (e *Error) StatusCode() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeExternal:
		return http.StatusBadGateway
	case TypeRateLimit:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func New(t Type, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

func Validation(message string, err error) *Error {
	return New(TypeValidation, message, err)
}

func Authentication(message string, err error) *Error {
	return New(TypeAuthentication, message, err)
}

func Authorization(message string, err error) *Error {
	return New(TypeAuthorization, message, err)
}

func NotFound(message string, err error) *Error {
	return New(TypeNotFound, message, err)
}

func Conflict(message string, err error) *Error {
	return New(TypeConflict, message, err)
}

func Internal(message string, err error) *Error {
	return New(TypeInternal, message, err)
}

func External(message string, err error) *Error {
	return New(TypeExternal, message, err)
}

func RateLimit(message string, err error) *Error {
	return New(TypeRateLimit, message, err)
}

func Unavailable(message string, err error) *Error {
	return New(TypeUnavailable, message, err)
}

// As extracts an *Error from err's chain. Anything else becomes an internal error.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
