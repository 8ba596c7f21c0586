// Package retry provides retry executor implementation
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// Executor drives an operation through repeated attempts according to a
// Policy. It is stateless apart from cumulative statistics and is safe for
// concurrent use; one executor is typically shared by all callers of the
// same remote dependency.
type Executor struct {
	policy  *Policy
	handler EventHandler
	clock   types.Clock
	stats   Stats
}

// Stats contains cumulative retry statistics
type Stats struct {
	Attempts     int64         // total attempt count across calls
	Successes    int64         // calls that eventually succeeded
	Failures     int64         // calls that finally failed
	Retries      int64         // calls that needed more than one attempt
	TotalBackoff time.Duration // cumulative time spent in backoff sleeps
	LastRetry    time.Time     // time of the most recent backoff

	mu sync.Mutex
}

// EventHandler observes retry events. The executor itself never logs;
// install a handler to surface attempts to your logging or metrics stack.
type EventHandler interface {
	// OnRetry is called before sleeping ahead of the next attempt
	OnRetry(ctx context.Context, attempt int, err error, delay time.Duration)
	// OnSuccess is called when a call succeeds after at least one retry
	OnSuccess(ctx context.Context, attempt int, elapsed time.Duration)
	// OnGiveUp is called when a call fails without a further attempt,
	// whether the error was non-retryable or the attempt budget ran out
	OnGiveUp(ctx context.Context, attempt int, err error)
}

// ExecutorOption is a configuration option for the retry executor
type ExecutorOption func(*Executor)

// WithEventHandler sets the event handler
func WithEventHandler(handler EventHandler) ExecutorOption {
	return func(e *Executor) {
		e.handler = handler
	}
}

// WithClock sets the clock for time operations
func WithClock(clock types.Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = clock
	}
}

// NewExecutor creates a retry executor for the given policy
func NewExecutor(policy *Policy, opts ...ExecutorOption) (*Executor, error) {
	if policy == nil {
		return nil, errors.New("retry: policy must not be nil")
	}

	executor := &Executor{
		policy: policy,
		clock:  types.NewRealClock(),
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor, nil
}

// Policy returns the executor's policy
func (e *Executor) Policy() *Policy {
	return e.policy
}

// Execute runs op until it succeeds, fails with a non-retryable error, the
// attempt budget is exhausted, or ctx is cancelled. Each attempt runs under
// the policy's per-attempt deadline; between attempts the executor sleeps
// for the policy's backoff delay, interruptible by ctx.
//
// On exhaustion the returned error is an *ExhaustedError wrapping the final
// attempt's error. Non-retryable errors and the caller's own context errors
// are returned unchanged.
func Execute[T any](e *Executor, ctx context.Context, op Operation[T]) (T, error) {
	var zero T
	attempt := 0

	for {
		attempt++

		if err := ctx.Err(); err != nil {
			e.recordOutcome(attempt, false)
			return zero, err
		}

		e.updateStats(func(s *Stats) {
			s.Attempts++
		})

		start := e.clock.Now()
		value, err := RunWithTimeout(ctx, e.clock, op, e.policy.PerAttemptTimeout())
		elapsed := e.clock.Since(start)

		if err == nil {
			e.recordOutcome(attempt, true)
			if e.handler != nil && attempt > 1 {
				e.handler.OnSuccess(ctx, attempt, elapsed)
			}
			return value, nil
		}

		// the caller's own context ending is terminal regardless of the
		// attempt budget; its error passes through unwrapped
		if ctx.Err() != nil {
			e.recordOutcome(attempt, false)
			return zero, ctx.Err()
		}

		if attempt >= e.policy.MaxAttempts() {
			e.recordOutcome(attempt, false)
			if e.handler != nil {
				e.handler.OnGiveUp(ctx, attempt, err)
			}
			return zero, &ExhaustedError{Attempts: attempt, Err: err}
		}

		if !e.policy.ShouldRetry(err) {
			e.recordOutcome(attempt, false)
			if e.handler != nil {
				e.handler.OnGiveUp(ctx, attempt, err)
			}
			return zero, err
		}

		delay := e.policy.Delay(attempt)
		if suggested := types.RetryDelay(err); suggested > 0 {
			delay = suggested
			if delay > e.policy.maxDelay {
				delay = e.policy.maxDelay
			}
		}

		if e.handler != nil {
			e.handler.OnRetry(ctx, attempt, err, delay)
		}

		e.updateStats(func(s *Stats) {
			s.LastRetry = e.clock.Now()
			s.TotalBackoff += delay
		})

		if delay > 0 {
			timer := e.clock.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				e.recordOutcome(attempt, false)
				return zero, ctx.Err()
			case <-timer.C():
			}
		}
	}
}

// ExecuteAsync runs op with retries in a new goroutine and delivers exactly
// one Result on the returned channel.
func ExecuteAsync[T any](e *Executor, ctx context.Context, op Operation[T]) <-chan types.Result[T] {
	resultChan := make(chan types.Result[T], 1)

	go func() {
		defer close(resultChan)

		start := e.clock.Now()
		value, err := Execute(e, ctx, op)

		resultChan <- types.Result[T]{
			Value:    value,
			Error:    err,
			Duration: e.clock.Since(start),
		}
	}()

	return resultChan
}

// GetStats returns a snapshot of the cumulative statistics
func (e *Executor) GetStats() Stats {
	e.stats.mu.Lock()
	defer e.stats.mu.Unlock()
	return Stats{
		Attempts:     e.stats.Attempts,
		Successes:    e.stats.Successes,
		Failures:     e.stats.Failures,
		Retries:      e.stats.Retries,
		TotalBackoff: e.stats.TotalBackoff,
		LastRetry:    e.stats.LastRetry,
		// don't copy mutex
	}
}

// ResetStats resets the cumulative statistics
func (e *Executor) ResetStats() {
	e.stats.mu.Lock()
	defer e.stats.mu.Unlock()

	e.stats.Attempts = 0
	e.stats.Successes = 0
	e.stats.Failures = 0
	e.stats.Retries = 0
	e.stats.TotalBackoff = 0
	e.stats.LastRetry = time.Time{}
}

func (e *Executor) recordOutcome(attempt int, success bool) {
	e.updateStats(func(s *Stats) {
		if success {
			s.Successes++
		} else {
			s.Failures++
		}
		if attempt > 1 {
			s.Retries++
		}
	})
}

// updateStats updates statistics (thread-safe)
func (e *Executor) updateStats(fn func(*Stats)) {
	e.stats.mu.Lock()
	defer e.stats.mu.Unlock()
	fn(&e.stats)
}

// Logger is the minimal logging surface used by LogEventHandler. Any
// structured or printf-style logger can be adapted to it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LogEventHandler logs retry events through a Logger
type LogEventHandler struct {
	logger Logger
}

// NewLogEventHandler creates an event handler that logs retry events
func NewLogEventHandler(logger Logger) *LogEventHandler {
	return &LogEventHandler{logger: logger}
}

// OnRetry handles retry events
func (h *LogEventHandler) OnRetry(ctx context.Context, attempt int, err error, delay time.Duration) {
	if h.logger != nil {
		h.logger.Warnf("attempt %d failed, retrying in %v: %v", attempt, delay, err)
	}
}

// OnSuccess handles success-after-retry events
func (h *LogEventHandler) OnSuccess(ctx context.Context, attempt int, elapsed time.Duration) {
	if h.logger != nil {
		h.logger.Infof("call succeeded on attempt %d after %v", attempt, elapsed)
	}
}

// OnGiveUp handles final failure events
func (h *LogEventHandler) OnGiveUp(ctx context.Context, attempt int, err error) {
	if h.logger != nil {
		h.logger.Errorf("giving up after attempt %d: %v", attempt, err)
	}
}

// SlogLogger adapts a *slog.Logger to the Logger interface
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a Logger backed by slog
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
