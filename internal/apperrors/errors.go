// Package apperrors defines the error kinds surfaced by the backend.
package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an error so handlers can map it to an HTTP status.
type Code string

const (
	// CodeAuth covers bad credentials, signup rejection, and transport
	// failure during auth.
	CodeAuth Code = "AUTH_ERROR"
	// CodeDuplicate is a signup against an email that already exists.
	CodeDuplicate Code = "DUPLICATE"
	// CodeRepository covers read/write/delete failure against persistence.
	CodeRepository Code = "REPOSITORY_ERROR"
	// CodeAnalysis covers a missing AI credential, transport failure, or an
	// empty/unparseable AI response.
	CodeAnalysis Code = "ANALYSIS_ERROR"
	// CodeValidation is a client-side rejection; no backend call was made.
	CodeValidation Code = "VALIDATION_ERROR"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf returns the human-readable message of err, falling back to
// err.Error() for plain errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
