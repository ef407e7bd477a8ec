// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for circfifo.
//
// Misuse (bad arguments, absent ring) is the only failure the ring reports.
// Running out of space or data is never an error: it shows up as a short
// transfer count.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotSupported    = errors.New("operation not supported")
	ErrShortTransfer   = errors.New("short transfer")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeNotSupported
	ErrCodeShortTransfer
)

// Err returns the sentinel error matching the code, or nil for ErrCodeOK.
func (c ErrorCode) Err() error {
	switch c {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeNotSupported:
		return ErrNotSupported
	case ErrCodeShortTransfer:
		return ErrShortTransfer
	}
	return nil
}

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotSupported:
		return "not_supported"
	case ErrCodeShortTransfer:
		return "short_transfer"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel for the error code so errors.Is works.
func (e *Error) Unwrap() error {
	return e.Code.Err()
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// InvalidArgument builds an ErrCodeInvalidArgument error tagged with op.
func InvalidArgument(op, message string) *Error {
	return NewError(ErrCodeInvalidArgument, message).WithContext("op", op)
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the error code from err, walking wrapped errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return ErrCodeInvalidArgument
	case errors.Is(err, ErrNotSupported):
		return ErrCodeNotSupported
	case errors.Is(err, ErrShortTransfer):
		return ErrCodeShortTransfer
	}
	return ErrCodeOK
}
