// Package errors provides structured error handling for Triton's object
// storage core.
//
// Errors are categorized by ErrorType so callers can tell a fatal
// configuration mistake apart from a capacity failure that only rejects the
// current operation. Missing identifiers are never reported through this
// package: Find and Delete return a boolean "not found" outcome instead.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal invariant violations
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid call arguments
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents invalid construction parameters
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeCapacity represents a full pool or an exhausted creation counter
	ErrorTypeCapacity ErrorType = "capacity"
	// ErrorTypeAllocator represents a refusal from the allocator collaborator
	ErrorTypeAllocator ErrorType = "allocator"
	// ErrorTypeConstruct represents a failing element constructor
	ErrorTypeConstruct ErrorType = "construct"
)

// Sentinel causes wrapped by capacity and allocator errors. Match them with
// the standard errors.Is.
var (
	// ErrPoolFull is the cause of an Add against a pool at its chunk ceiling
	ErrPoolFull = errors.New("pool is full")
	// ErrCounterExhausted is the cause of a Create once the factory counter hit its limit
	ErrCounterExhausted = errors.New("creation counter exhausted")
	// ErrAllocatorExhausted is the cause of a Create refused by the allocator
	ErrAllocatorExhausted = errors.New("allocator exhausted")
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsCapacity reports whether err rejected an operation because a pool or a
// factory ran out of room. The caller may free elements and retry.
func IsCapacity(err error) bool {
	return IsType(err, ErrorTypeCapacity)
}

// IsConfig reports whether err is a construction-time configuration error.
func IsConfig(err error) bool {
	return IsType(err, ErrorTypeConfig)
}

// Is is a re-export of the standard library helper so callers need only one
// errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a re-export of the standard library helper.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
