// Package breaker provides a per-dependency circuit breaker
package breaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// State represents the circuit breaker state
type State int

const (
	// StateClosed allows all calls through and tracks consecutive failures
	StateClosed State = iota

	// StateOpen rejects all calls until the recovery timeout elapses
	StateOpen

	// StateHalfOpen admits a single trial call at a time to probe recovery
	StateHalfOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config configures a circuit breaker
type Config struct {
	// FailureThreshold is the number of consecutive failures in the closed
	// state that opens the circuit. Must be at least 1.
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before the next
	// call is admitted as a half-open trial. Must be positive.
	RecoveryTimeout time.Duration

	// SuccessThreshold is the number of consecutive successful trials in
	// the half-open state required to close the circuit. Must be at least 1.
	SuccessThreshold int
}

func (c Config) validate() error {
	if c.FailureThreshold < 1 {
		return fmt.Errorf("breaker: failure threshold must be at least 1, got %d", c.FailureThreshold)
	}
	if c.RecoveryTimeout <= 0 {
		return fmt.Errorf("breaker: recovery timeout must be positive, got %v", c.RecoveryTimeout)
	}
	if c.SuccessThreshold < 1 {
		return fmt.Errorf("breaker: success threshold must be at least 1, got %d", c.SuccessThreshold)
	}
	return nil
}

// Breaker tracks the health of exactly one remote dependency and gates
// whether calls to it should be attempted at all. It cycles between three
// states:
//
//	closed --consecutive failures >= FailureThreshold--> open
//	open --RecoveryTimeout elapsed, next call--> half-open
//	half-open --trial successes >= SuccessThreshold--> closed
//	half-open --any trial failure--> open
//
// Open never skips straight to closed; recovery is always probed through
// half-open trials, one in flight at a time.
//
// A Breaker must not be copied after first use. Construct one per logical
// dependency and pass it by pointer; breaker state is process-local and
// not persisted across restarts.
type Breaker struct {
	cfg           Config
	clock         types.Clock
	onStateChange func(from, to State)

	mu             sync.Mutex
	state          State
	failures       int // consecutive failures while closed
	trialSuccesses int // consecutive successful trials while half-open
	trialInFlight  bool
	lastFailure    time.Time
	generation     uint64
}

// Option is a configuration option for the breaker
type Option func(*Breaker)

// WithClock sets the clock used for the recovery timeout
func WithClock(clock types.Clock) Option {
	return func(b *Breaker) {
		b.clock = clock
	}
}

// WithOnStateChange installs a hook invoked on every state transition.
// The hook runs outside the breaker's lock and must not call back into
// the breaker synchronously from another goroutine it blocks on.
func WithOnStateChange(fn func(from, to State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

// New creates a circuit breaker in the closed state
func New(cfg Config, opts ...Option) (*Breaker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	b := &Breaker{
		cfg:   cfg,
		clock: types.NewRealClock(),
		state: StateClosed,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Allow decides whether a call may be attempted. If permitted, the returned
// report function must be invoked exactly once with the call's final
// outcome; it is safe to call it more than once but only the first
// invocation counts. If not permitted, the report function is nil and the
// operation must not run.
//
// In the open state the first Allow after the recovery timeout transitions
// the breaker to half-open and admits the caller as the trial; concurrent
// callers arriving while a trial is in flight are rejected, not queued.
func (b *Breaker) Allow() (bool, func(success bool)) {
	b.mu.Lock()

	switch b.state {
	case StateClosed:
		report := b.reportFuncLocked()
		b.mu.Unlock()
		return true, report

	case StateOpen:
		if b.clock.Since(b.lastFailure) < b.cfg.RecoveryTimeout {
			b.mu.Unlock()
			return false, nil
		}
		from := b.transitionLocked(StateHalfOpen)
		b.trialInFlight = true
		report := b.reportFuncLocked()
		b.mu.Unlock()
		b.notify(from, StateHalfOpen)
		return true, report

	case StateHalfOpen:
		if b.trialInFlight {
			b.mu.Unlock()
			return false, nil
		}
		b.trialInFlight = true
		report := b.reportFuncLocked()
		b.mu.Unlock()
		return true, report
	}

	b.mu.Unlock()
	return false, nil
}

// State returns a snapshot of the current state for observability. An open
// breaker whose recovery timeout has elapsed still reports open until the
// next call transitions it.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset returns the breaker to the closed state and clears all counters
func (b *Breaker) Reset() {
	b.mu.Lock()
	from := b.state
	if from != StateClosed {
		b.transitionLocked(StateClosed)
	}
	b.failures = 0
	b.trialSuccesses = 0
	b.trialInFlight = false
	b.mu.Unlock()

	if from != StateClosed {
		b.notify(from, StateClosed)
	}
}

// reportFuncLocked builds the one-shot outcome report for an admitted call.
// The captured generation lets record discard reports from calls admitted
// before a later state transition.
func (b *Breaker) reportFuncLocked() func(success bool) {
	gen := b.generation
	var once sync.Once
	return func(success bool) {
		once.Do(func() {
			b.record(gen, success)
		})
	}
}

func (b *Breaker) record(gen uint64, success bool) {
	b.mu.Lock()

	if gen != b.generation {
		// stale report from a call admitted before a state transition;
		// counting it would corrupt the current state's bookkeeping
		b.mu.Unlock()
		return
	}

	from := b.state
	to := from

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
		} else {
			b.failures++
			if b.failures >= b.cfg.FailureThreshold {
				b.lastFailure = b.clock.Now()
				b.transitionLocked(StateOpen)
				to = StateOpen
			}
		}

	case StateHalfOpen:
		b.trialInFlight = false
		if success {
			b.trialSuccesses++
			if b.trialSuccesses >= b.cfg.SuccessThreshold {
				b.failures = 0
				b.trialSuccesses = 0
				b.transitionLocked(StateClosed)
				to = StateClosed
			}
		} else {
			b.lastFailure = b.clock.Now()
			b.trialSuccesses = 0
			b.transitionLocked(StateOpen)
			to = StateOpen
		}

	case StateOpen:
		// unreachable while generations match; transitions into open
		// always bump the generation
	}

	b.mu.Unlock()

	if to != from {
		b.notify(from, to)
	}
}

// transitionLocked switches states, resetting half-open trial bookkeeping
// and bumping the generation. Returns the previous state.
func (b *Breaker) transitionLocked(to State) State {
	from := b.state
	b.state = to
	b.generation++
	if to == StateHalfOpen {
		b.trialSuccesses = 0
	}
	return from
}

func (b *Breaker) notify(from, to State) {
	if b.onStateChange != nil && from != to {
		b.onStateChange(from, to)
	}
}
