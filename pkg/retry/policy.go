// Package retry provides retry policies and the retry executor
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

const (
	defaultMaxDelay          = 30 * time.Second
	defaultMultiplier        = 2.0
	defaultPerAttemptTimeout = 10 * time.Second
)

// Condition decides whether an error is worth another attempt. It is the
// single extension point for failure classification: transport-specific
// taxonomy (HTTP status codes, gRPC codes, socket errors) stays inside the
// condition, never inside the executor.
type Condition func(err error) bool

// Policy describes how a failing operation is retried: how many attempts,
// how attempts are spaced, how long a single attempt may run, and which
// errors qualify for a retry.
//
// A Policy is immutable after construction and safe to share across
// goroutines and executors.
type Policy struct {
	maxAttempts       int
	baseDelay         time.Duration
	maxDelay          time.Duration
	multiplier        float64
	jitterFraction    float64
	perAttemptTimeout time.Duration
	condition         Condition
}

// PolicyOption is a configuration option for retry policies
type PolicyOption func(*Policy)

// WithMaxDelay caps the computed backoff delay
func WithMaxDelay(maxDelay time.Duration) PolicyOption {
	return func(p *Policy) {
		p.maxDelay = maxDelay
	}
}

// WithMultiplier sets the exponential growth factor between attempts
func WithMultiplier(multiplier float64) PolicyOption {
	return func(p *Policy) {
		p.multiplier = multiplier
	}
}

// WithJitterFraction sets the symmetric jitter fraction in [0, 1]. A
// fraction f perturbs each delay uniformly within [delay*(1-f), delay*(1+f)].
// Zero disables jitter and makes delays deterministic.
func WithJitterFraction(fraction float64) PolicyOption {
	return func(p *Policy) {
		p.jitterFraction = fraction
	}
}

// WithPerAttemptTimeout bounds the duration of each individual attempt.
// Zero disables the per-attempt deadline.
func WithPerAttemptTimeout(timeout time.Duration) PolicyOption {
	return func(p *Policy) {
		p.perAttemptTimeout = timeout
	}
}

// WithCondition sets the retry condition
func WithCondition(condition Condition) PolicyOption {
	return func(p *Policy) {
		p.condition = condition
	}
}

// NewPolicy creates a retry policy with the given attempt budget and base
// delay. Defaults: 30s max delay, multiplier 2, no jitter, 10s per-attempt
// timeout, DefaultCondition. Invalid values are rejected here so they are
// never discovered mid-call.
func NewPolicy(maxAttempts int, baseDelay time.Duration, opts ...PolicyOption) (*Policy, error) {
	p := &Policy{
		maxAttempts:       maxAttempts,
		baseDelay:         baseDelay,
		multiplier:        defaultMultiplier,
		perAttemptTimeout: defaultPerAttemptTimeout,
		condition:         DefaultCondition,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.maxDelay == 0 {
		p.maxDelay = defaultMaxDelay
		if p.maxDelay < p.baseDelay {
			p.maxDelay = p.baseDelay
		}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Policy) validate() error {
	if p.maxAttempts < 1 {
		return fmt.Errorf("retry: max attempts must be at least 1, got %d", p.maxAttempts)
	}
	if p.baseDelay <= 0 {
		return fmt.Errorf("retry: base delay must be positive, got %v", p.baseDelay)
	}
	if p.maxDelay < p.baseDelay {
		return fmt.Errorf("retry: max delay %v is below base delay %v", p.maxDelay, p.baseDelay)
	}
	if p.multiplier < 1 {
		return fmt.Errorf("retry: multiplier must be at least 1, got %v", p.multiplier)
	}
	if p.jitterFraction < 0 || p.jitterFraction > 1 {
		return fmt.Errorf("retry: jitter fraction must be in [0, 1], got %v", p.jitterFraction)
	}
	if p.perAttemptTimeout < 0 {
		return fmt.Errorf("retry: per-attempt timeout must not be negative, got %v", p.perAttemptTimeout)
	}
	if p.condition == nil {
		return errors.New("retry: condition must not be nil")
	}
	return nil
}

// MaxAttempts returns the maximum attempt count
func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

// PerAttemptTimeout returns the per-attempt deadline, zero if disabled
func (p *Policy) PerAttemptTimeout() time.Duration {
	return p.perAttemptTimeout
}

// ShouldRetry reports whether err qualifies for another attempt
func (p *Policy) ShouldRetry(err error) bool {
	return p.condition(err)
}

// DefaultCondition is the default retry condition. Per-attempt timeouts,
// errors explicitly marked retryable, and errors reporting Timeout() true
// are retried; context errors and everything else are not.
func DefaultCondition(err error) bool {
	if err == nil {
		return false
	}

	// the caller's own context being done means retrying is pointless
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, ErrAttemptTimeout) {
		return true
	}

	if errors.As(err, new(*types.RetryableError)) {
		return types.IsRetryable(err)
	}

	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) {
		return timeout.Timeout()
	}

	return false
}
