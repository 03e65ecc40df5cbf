// Package errors provides structured error types for the layercross tools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the engine
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into four groups:
//   - input-format failures detected while parsing (INVALID_HEADER,
//     TRUNCATED_RECORD, NONADJACENT_LAYERS, DUPLICATE_POSITION,
//     DANGLING_ENDPOINT, INVALID_FORMAT)
//   - resource errors (FILE_NOT_FOUND)
//   - programming errors detected by the engine (INVARIANT_VIOLATION)
//   - unexpected internal errors (INTERNAL_ERROR, UNSUPPORTED)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicatePosition, "layer %d: position %d assigned twice", layer, pos)
//	if errors.Is(err, errors.ErrCodeDuplicatePosition) {
//	    // Handle parse error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidHeader, origErr, "line %d", lineno)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input-format errors; all fatal at parse time.
	ErrCodeInvalidHeader     Code = "INVALID_HEADER"
	ErrCodeTruncatedRecord   Code = "TRUNCATED_RECORD"
	ErrCodeNonadjacentLayers Code = "NONADJACENT_LAYERS"
	ErrCodeDuplicatePosition Code = "DUPLICATE_POSITION"
	ErrCodeDanglingEndpoint  Code = "DANGLING_ENDPOINT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Programming errors
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

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

// Panicf aborts with an INVARIANT_VIOLATION error. Invariant violations are
// programming errors, not runtime conditions; callers must not recover them
// except at a top-level diagnostic boundary.
func Panicf(format string, args ...any) {
	panic(New(ErrCodeInvariantViolation, format, args...))
}
