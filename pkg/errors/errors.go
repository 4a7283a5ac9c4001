// Package errors provides structured error types for authorsphere.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the crawler, layout and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of the crawler and its data source:
//   - SOURCE_UNAVAILABLE: transport failures and 5xx responses
//   - MALFORMED_RESPONSE: unparsable payloads or missing fields
//   - MISSING_NEIGHBOR_REFERENCE: a related record without a resolvable identifier
//   - PERSISTENCE_CORRUPT: the stored graph could not be read
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedResponse, "author %s has no name", id)
//	if errors.Is(err, errors.ErrCodeMalformedResponse) {
//	    // Handle parse failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Data source errors
	ErrCodeSourceUnavailable        Code = "SOURCE_UNAVAILABLE"
	ErrCodeMalformedResponse        Code = "MALFORMED_RESPONSE"
	ErrCodeMissingNeighborReference Code = "MISSING_NEIGHBOR_REFERENCE"
	ErrCodeNotFound                 Code = "NOT_FOUND"
	ErrCodeRateLimited              Code = "RATE_LIMITED"

	// Storage errors
	ErrCodePersistenceCorrupt Code = "PERSISTENCE_CORRUPT"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Canvas errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"

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
// Only the outermost *Error is considered.
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

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
