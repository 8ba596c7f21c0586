// Package types defines error types
package types

import (
	"errors"
	"time"
)

// RetryableError wraps an error with an explicit retryability decision.
// Operation implementations use it to tell the retry executor whether a
// failure is transient, without the executor knowing anything about the
// underlying transport.
type RetryableError struct {
	// Err is the underlying error
	Err error

	// Retryable indicates whether the error is retryable
	Retryable bool

	// RetryAfter is an optional suggested delay before the next attempt,
	// e.g. taken from a Retry-After response header. Zero means no
	// suggestion and the policy's own backoff applies.
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *RetryableError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *RetryableError) Unwrap() error {
	return e.Err
}

// MarkRetryable wraps err as a retryable error. It returns nil if err is nil.
func MarkRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, Retryable: true}
}

// MarkPermanent wraps err as a non-retryable error. It returns nil if err is nil.
func MarkPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, Retryable: false}
}

// IsRetryable reports whether err carries an explicit retryable marker.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}
	return false
}

// RetryDelay returns the suggested retry delay attached to err, or zero.
func RetryDelay(err error) time.Duration {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.RetryAfter
	}
	return 0
}
