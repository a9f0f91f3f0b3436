package errors

import (
	"fmt"
	"strings"
)

// ErrorType classifies failures raised outside request decoding
type ErrorType string

const (
	ErrTypeParsing ErrorType = "PARSING"
	ErrTypeStorage ErrorType = "STORAGE"
	ErrTypeConfig  ErrorType = "CONFIG"
)

// AppError records the operation and file a failure happened in
type AppError struct {
	Type  ErrorType
	Op    string
	Path  string
	Cause error
}

// Error renders "[TYPE] op path: cause", omitting empty parts
func (e *AppError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Op)
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Detail is the client-facing message; the cause is included only for
// parsing errors, where it points at the offending input
func (e *AppError) Detail() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Type == ErrTypeParsing && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// ParseError wraps a failure to decode a data file
func ParseError(op, path string, cause error) *AppError {
	return &AppError{Type: ErrTypeParsing, Op: op, Path: path, Cause: cause}
}

// StorageError wraps a failure to read or write a file
func StorageError(op, path string, cause error) *AppError {
	return &AppError{Type: ErrTypeStorage, Op: op, Path: path, Cause: cause}
}

// ConfigError wraps an invalid or unreadable configuration input
func ConfigError(op string, cause error) *AppError {
	return &AppError{Type: ErrTypeConfig, Op: op, Cause: cause}
}
