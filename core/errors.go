package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies what went wrong while resolving or invoking a route.
type ErrorCode string

const (
	ErrCodeInvalidRoute            ErrorCode = "INVALID_ROUTE"
	ErrCodeCaptureGroupOutOfRange  ErrorCode = "CAPTURE_GROUP_OUT_OF_RANGE"
	ErrCodeControllerNotFound      ErrorCode = "CONTROLLER_NOT_FOUND"
	ErrCodeInvalidControllerType   ErrorCode = "INVALID_CONTROLLER_TYPE"
	ErrCodeControllerInstantiation ErrorCode = "CONTROLLER_INSTANTIATION_FAILED"
	ErrCodeActionNotFound          ErrorCode = "ACTION_NOT_FOUND"
	ErrCodeDispatchFailed          ErrorCode = "DISPATCH_FAILED"
)

// Error is the framework's structured error. It keeps the original cause so
// callers can still branch on the underlying code after dispatch wraps it.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vane: [%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vane: [%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code so errors.Is works across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus maps an error code to the status the router answers with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case ErrCodeControllerNotFound, ErrCodeActionNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates a framework error with the given code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a framework error that keeps cause for unwrapping.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ErrorCodeOf returns the code buried inside err, looking through dispatch
// wrappers, or "" if err is not a framework error. A dispatch wrapper around a
// plain cause (an action error, a recovered panic) reports the wrapper's code.
func ErrorCodeOf(err error) ErrorCode {
	var last ErrorCode
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return last
		}
		if e.Code != ErrCodeDispatchFailed || e.Cause == nil {
			return e.Code
		}
		last = e.Code
		err = e.Cause
	}
	return last
}

// IsNotFoundError reports whether err should surface as a 404 rather than a
// server error.
func IsNotFoundError(err error) bool {
	switch ErrorCodeOf(err) {
	case ErrCodeControllerNotFound, ErrCodeActionNotFound:
		return true
	}
	return false
}
