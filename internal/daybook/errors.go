// ABOUTME: Error taxonomy for daybook operations.
// ABOUTME: Every failure is an *Error whose Kind can be matched with errors.Is.
package daybook

import (
	"errors"
	"fmt"
)

// Error kinds that can be used for error checking with errors.Is().
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidMetricValue = errors.New("invalid metric value")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// Error is a failed operation. Message is safe to show to the user.
type Error struct {
	Op      string // Operation that failed, e.g. "CreateDailyLog"
	Kind    error  // One of the Err* kinds above
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against the kind and the cause.
func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// Detail returns the message with the operation and cause for logs.
func (e *Error) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func newError(op string, kind error, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

func notFound(op, message string) *Error {
	return newError(op, ErrNotFound, message)
}

func conflict(op, message string) *Error {
	return newError(op, ErrConflict, message)
}

func invalidOperation(op, message string) *Error {
	return newError(op, ErrInvalidOperation, message)
}

func invalidInput(op, message string) *Error {
	return newError(op, ErrInvalidInput, message)
}

func invalidValue(message string) *Error {
	return newError("ValidateMetricValue", ErrInvalidMetricValue, message)
}

// KindName returns a short label for the error's kind, or "error" for
// errors that did not come from this package.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidMetricValue):
		return "invalid_metric_value"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInternal):
		return "internal"
	default:
		return "error"
	}
}
