// Package retry defines error types
package retry

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrAttemptTimeout indicates a single attempt exceeded its per-attempt deadline
	ErrAttemptTimeout = errors.New("attempt timed out")

	// ErrAttemptsExhausted indicates the attempt budget was spent without success
	ErrAttemptsExhausted = errors.New("retry attempts exhausted")
)

// ExhaustedError reports that every attempt permitted by the policy failed.
// It wraps the error of the final attempt and matches ErrAttemptsExhausted
// via errors.Is.
type ExhaustedError struct {
	// Attempts is the number of attempts made
	Attempts int

	// Err is the error returned by the final attempt
	Err error
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry attempts exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the final attempt's error
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is matches ErrAttemptsExhausted
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAttemptsExhausted
}
