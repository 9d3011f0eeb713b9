/*
Copyright © 2025 vistamin
*/
package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies archive store failures. The CLI and MCP boundaries
// surface plain strings; the codes exist so internal callers can branch
// without parsing messages.
type ErrorCode string

const (
	// ErrMissingField signals a required record field is absent.
	ErrMissingField ErrorCode = "MISSING_FIELD"
	// ErrMalformedTimestamp signals a record timestamp that is not RFC 3339.
	ErrMalformedTimestamp ErrorCode = "MALFORMED_TIMESTAMP"
	// ErrIO signals a directory/file create, read, write, or delete failure.
	ErrIO ErrorCode = "IO_ERROR"
	// ErrSerialization signals a JSON encode/decode failure.
	ErrSerialization ErrorCode = "SERIALIZATION_ERROR"
)

// HistoryError provides structured error information for archive operations.
type HistoryError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *HistoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// NewHistoryError creates a new structured history error.
func NewHistoryError(code ErrorCode, message string, err error) *HistoryError {
	return &HistoryError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err (or anything it wraps) is a HistoryError
// carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var he *HistoryError
	if errors.As(err, &he) {
		return he.Code == code
	}
	return false
}
