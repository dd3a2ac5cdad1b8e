package study

import (
	"errors"
	"fmt"
)

// Common error types for the study service
var (
	// ErrInvalidQuality indicates an answer grade outside {1,2,3,4}.
	ErrInvalidQuality = errors.New("invalid answer quality")

	// ErrCardSuspended indicates an operation on a suspended card that
	// requires an active one, such as answering it.
	ErrCardSuspended = errors.New("card is suspended")

	// ErrSessionExhausted indicates an answer was submitted to a session
	// whose snapshot queue is already empty.
	ErrSessionExhausted = errors.New("session queue exhausted")

	// ErrSessionNotFound indicates an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
)

// ServiceError wraps errors from the study service with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.Is/errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "answer_card", "build_queue")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
