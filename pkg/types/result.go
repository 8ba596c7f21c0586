package types

import "time"

// Result carries the outcome of an asynchronously executed call.
type Result[T any] struct {
	// Value is the call result
	Value T

	// Error is the call error
	Error error

	// Duration is the total call time, including retries and backoff
	Duration time.Duration
}
