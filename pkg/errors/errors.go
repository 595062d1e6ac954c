// Package errors provides structured error types for dmdpattern.
//
// Every failure in the pattern pipeline is a caller-fixable configuration
// error, so errors carry a machine-readable [Code] that the CLI and the
// preview server use to pick an exit status or HTTP status.
//
// # Error Codes
//
// Codes are grouped by the class of mistake they describe:
//   - INVALID_*: malformed input rejected at the call boundary
//   - GEOMETRY_INVARIANT: device geometry whose mirror mapping is not injective
//   - OUT_OF_BOUNDS: offsets that push a primitive outside the grid
//   - SIZE_MISMATCH: an externally supplied image of the wrong size
//   - FILE_NOT_FOUND, NOT_FOUND: missing files and catalog entries
//   - INTERNAL_ERROR: I/O and encoder failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidColor, "color %v out of range", v)
//	if errors.Is(err, errors.ErrCodeInvalidColor) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidColor   Code = "INVALID_COLOR"
	ErrCodeInvalidVector  Code = "INVALID_VECTOR"
	ErrCodeInvalidDither  Code = "INVALID_DITHER"
	ErrCodeInvalidPattern Code = "INVALID_PATTERN"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Geometry and range errors
	ErrCodeGeometry     Code = "GEOMETRY_INVARIANT"
	ErrCodeOutOfBounds  Code = "OUT_OF_BOUNDS"
	ErrCodeSizeMismatch Code = "SIZE_MISMATCH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsValidation reports whether err belongs to the validation class: input
// rejected at a call boundary before anything was mutated.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidColor, ErrCodeInvalidVector,
		ErrCodeInvalidDither, ErrCodeInvalidPattern, ErrCodeInvalidFormat:
		return true
	}
	return false
}
