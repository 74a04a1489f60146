// Package errors provides structured error types for the linkrate application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending point or body
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - GEOMETRY_*: Linkage geometry validation failures
//   - DRIVER_*: Shock (driver) configuration failures
//   - INVALID_*: Input parsing and option validation failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownPoint, "body %q references unknown point %q", bodyID, pointID)
//	if errors.Is(err, errors.ErrCodeUnknownPoint) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometry validation errors
	ErrCodeNoPoints       Code = "GEOMETRY_NO_POINTS"
	ErrCodeNoBodies       Code = "GEOMETRY_NO_BODIES"
	ErrCodeDuplicatePoint Code = "GEOMETRY_DUPLICATE_POINT"
	ErrCodeUnknownPoint   Code = "GEOMETRY_UNKNOWN_POINT"

	// Driver (shock) configuration errors
	ErrCodeNoShock        Code = "DRIVER_NO_SHOCK"
	ErrCodeMultipleShocks Code = "DRIVER_MULTIPLE_SHOCKS"
	ErrCodeMissingStroke  Code = "DRIVER_MISSING_STROKE"
	ErrCodeShockPoints    Code = "DRIVER_SHOCK_POINTS"

	// Input parsing and option errors
	ErrCodeInvalidPointKind Code = "INVALID_POINT_KIND"
	ErrCodeInvalidBodyKind  Code = "INVALID_BODY_KIND"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidScale     Code = "INVALID_SCALE"
	ErrCodeInvalidOptions   Code = "INVALID_OPTIONS"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
