// Package errors provides standardized domain errors with codes for the FileDeck API.
//
// Usage:
//
//	// In services - return typed errors
//	if !utf8.Valid(data) {
//	    return errors.InvalidUTF8("file is not valid UTF-8 text")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    ...
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeNotFound:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound         Code = "NOT_FOUND"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeInvalidUTF8      Code = "INVALID_UTF8"
	CodeAlreadyWatching  Code = "ALREADY_WATCHING"
	CodeNotWatching      Code = "NOT_WATCHING"
	CodeValidation       Code = "VALIDATION"
	CodeInternal         Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeInvalidUTF8:
		return http.StatusUnprocessableEntity
	case CodeAlreadyWatching, CodeNotWatching:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied, Message: "permission denied"}
	ErrInvalidUTF8      = &Error{Code: CodeInvalidUTF8, Message: "invalid UTF-8"}
	ErrAlreadyWatching  = &Error{Code: CodeAlreadyWatching, Message: "already watching"}
	ErrNotWatching      = &Error{Code: CodeNotWatching, Message: "not watching"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal         = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// PermissionDenied creates a permission denied error.
func PermissionDenied(msg string) *Error {
	return &Error{Code: CodePermissionDenied, Message: msg}
}

// PermissionDeniedf creates a permission denied error with formatted message.
func PermissionDeniedf(format string, args ...any) *Error {
	return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// InvalidUTF8 creates an invalid UTF-8 error.
func InvalidUTF8(msg string) *Error {
	return &Error{Code: CodeInvalidUTF8, Message: msg}
}

// InvalidUTF8f creates an invalid UTF-8 error with formatted message.
func InvalidUTF8f(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidUTF8, Message: fmt.Sprintf(format, args...)}
}

// AlreadyWatching creates an already watching error.
func AlreadyWatching(msg string) *Error {
	return &Error{Code: CodeAlreadyWatching, Message: msg}
}

// NotWatching creates a not watching error.
func NotWatching(msg string) *Error {
	return &Error{Code: CodeNotWatching, Message: msg}
}

// NotWatchingf creates a not watching error with formatted message.
func NotWatchingf(format string, args ...any) *Error {
	return &Error{Code: CodeNotWatching, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// FromOS maps an operating system filesystem error to a domain error.
// Unrecognized errors become internal errors so callers never panic on I/O.
func FromOS(err error, path string) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return NotFoundf("path does not exist: %s", path).WithCause(err)
	case errors.Is(err, fs.ErrPermission):
		return PermissionDeniedf("access denied: %s", path).WithCause(err)
	default:
		return Wrapf(err, CodeInternal, "filesystem error on %s", path)
	}
}
