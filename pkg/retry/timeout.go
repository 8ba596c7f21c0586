// Package retry provides per-attempt deadline enforcement
package retry

import (
	"context"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Operation is a single unit of remote work. It must honor cancellation of
// the supplied context; the executor never inspects what the operation does.
type Operation[T any] func(ctx context.Context) (T, error)

// RunWithTimeout executes one attempt of op under a deadline. The operation
// receives a child context that is cancelled when the timeout fires or when
// the parent context is done. A zero timeout disables the deadline and the
// operation runs directly on a cancellable child of ctx.
//
// If the deadline elapses first, RunWithTimeout returns ErrAttemptTimeout
// and cancels the child context. Cancellation is cooperative only: an
// operation that ignores its context keeps running in its goroutine and
// keeps consuming whatever resources it holds until it returns on its own.
// The enforcer has no way to terminate it forcibly.
func RunWithTimeout[T any](ctx context.Context, clock types.Clock, op Operation[T], timeout time.Duration) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if timeout <= 0 {
		return op(attemptCtx)
	}

	type outcome struct {
		value T
		err   error
	}

	// buffered so a late-finishing operation never blocks on the send
	done := make(chan outcome, 1)
	go func() {
		value, err := op(attemptCtx)
		done <- outcome{value: value, err: err}
	}()

	timer := clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.value, out.err
	case <-timer.C():
		cancel()
		return zero, ErrAttemptTimeout
	case <-ctx.Done():
		cancel()
		return zero, ctx.Err()
	}
}
