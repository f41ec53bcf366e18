// Package errors defines the error taxonomy shared by every stage of a
// backdrop run.
//
// Each failure carries a machine-readable Code so the CLI (and tests) can
// tell a bad configuration apart from an empty input directory or a failed
// write without matching on message text:
//
//   - CONFIG: missing or invalid configuration, or a layout request that
//     cannot produce a usable grid
//   - EMPTY_INPUT: the input directory holds no decodable raster images
//   - IO: reading, decoding, creating directories, or writing output
//   - UNSUPPORTED_FORMAT: a file that was skipped (never fatal)
//   - INTERNAL: a condition that should not be reachable
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "min_gap_ratio %v out of range", r)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // report and exit
//	}
//
//	err = errors.Wrap(errors.ErrCodeIO, cause, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeConfig            Code = "CONFIG"
	ErrCodeEmptyInput        Code = "EMPTY_INPUT"
	ErrCodeIO                Code = "IO"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ErrCodeInternal          Code = "INTERNAL"
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
