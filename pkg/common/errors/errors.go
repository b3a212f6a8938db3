package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the taskpool library

var (
	// ErrClosed indicates that work was submitted to a pool that has been finished
	ErrClosed = errors.New("pool is closed")

	// ErrTimeout indicates that a wait on a result timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates that a task was discarded before any worker picked it up
	ErrCancelled = errors.New("task cancelled before execution")

	// ErrSpawn indicates that a worker could not be brought up
	ErrSpawn = errors.New("worker spawn failed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ValidationError describes a rejected argument or configuration field.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap makes every ValidationError match ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError reports a failed pool management operation such as Start.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsCancelled returns true if the error reports a task dropped from the queue
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsTemporary returns true if the error indicates a condition that may clear
// on its own, so waiting again is reasonable
func IsTemporary(err error) bool {
	return errors.Is(err, ErrTimeout)
}
