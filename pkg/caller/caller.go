// Package caller composes a circuit breaker around a retry executor to
// form a resilient call path for one remote dependency.
//
// Call flow: the breaker is consulted first; if the circuit is open the
// operation never runs and breaker.ErrOpen is returned immediately, with
// no retry or backoff machinery involved. Otherwise the retry executor
// drives the operation through its attempts, and the call-level outcome —
// not each individual attempt — is reported back to the breaker. One
// admitted call is always exactly one breaker report, even when the
// executor made several attempts, and even when the caller's context was
// cancelled mid-call (cancellation counts as a failure so a half-open
// trial is never leaked in flight).
package caller

import (
	"context"
	"errors"

	"github.com/jzx17/goresilience/pkg/breaker"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/types"
)

// Caller is the resilient call facade for a single remote dependency.
// It is safe for concurrent use; all callers of the same dependency should
// share one Caller so the breaker sees the dependency's full call history.
type Caller struct {
	breaker  *breaker.Breaker
	executor *retry.Executor
	clock    types.Clock
}

// Option is a configuration option for the caller
type Option func(*Caller)

// WithClock sets the clock used to measure async call durations
func WithClock(clock types.Clock) Option {
	return func(c *Caller) {
		c.clock = clock
	}
}

// New creates a caller from an explicitly owned breaker and executor.
// Neither collaborator may be nil; there are no implicit singletons.
func New(b *breaker.Breaker, e *retry.Executor, opts ...Option) (*Caller, error) {
	if b == nil {
		return nil, errors.New("caller: breaker must not be nil")
	}
	if e == nil {
		return nil, errors.New("caller: executor must not be nil")
	}

	c := &Caller{
		breaker:  b,
		executor: e,
		clock:    types.NewRealClock(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// State returns the breaker's current state for observability
func (c *Caller) State() breaker.State {
	return c.breaker.State()
}

// Call executes op behind the breaker with retries. If the breaker rejects
// the call, op is never invoked and breaker.ErrOpen is returned. Errors
// from the executor pass through unchanged.
func Call[T any](c *Caller, ctx context.Context, op retry.Operation[T]) (T, error) {
	var zero T

	permitted, report := c.breaker.Allow()
	if !permitted {
		return zero, breaker.ErrOpen
	}

	value, err := retry.Execute(c.executor, ctx, op)
	report(err == nil)

	return value, err
}

// CallAsync runs Call in a new goroutine and delivers exactly one Result
// on the returned channel.
func CallAsync[T any](c *Caller, ctx context.Context, op retry.Operation[T]) <-chan types.Result[T] {
	resultChan := make(chan types.Result[T], 1)

	go func() {
		defer close(resultChan)

		start := c.clock.Now()
		value, err := Call(c, ctx, op)

		resultChan <- types.Result[T]{
			Value:    value,
			Error:    err,
			Duration: c.clock.Since(start),
		}
	}()

	return resultChan
}
