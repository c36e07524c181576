// Package errors provides structured error types for the diagram toolkit.
//
// Only setup and I/O paths return errors. Invalid editing operations
// (duplicate edges, undo on an empty history, drops on invalid targets)
// degrade to no-ops inside the reducers and never surface here.
//
//	err := errors.New(errors.ErrCodeContainerNotFound, "no container with id %q", id)
//	if errors.Is(err, errors.ErrCodeContainerNotFound) {
//	    // Handle missing container
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Setup errors
	ErrCodeContainerNotFound Code = "CONTAINER_NOT_FOUND"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeDestroyed         Code = "DESTROYED"

	// Input errors
	ErrCodeInvalidAction Code = "INVALID_ACTION"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Layout and rendering errors
	ErrCodeLayout Code = "LAYOUT_FAILED"
	ErrCodeRender Code = "RENDER_FAILED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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

// Is reports whether err has the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// coded is implemented by typed errors that carry a fixed code.
type coded interface {
	Code() Code
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ContainerNotFoundError is returned when a container id resolves to nothing.
type ContainerNotFoundError struct {
	ID string
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("%s: container %q not found", ErrCodeContainerNotFound, e.ID)
}

// Code returns the error code for this error type.
func (e *ContainerNotFoundError) Code() Code {
	return ErrCodeContainerNotFound
}

// Is lets errors.Is match any ContainerNotFoundError regardless of id.
func (e *ContainerNotFoundError) Is(target error) bool {
	_, ok := target.(*ContainerNotFoundError)
	return ok
}
