// Package retry provides the backoff delay computation
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Delay computes the backoff delay after the given failed attempt.
// Attempts are 1-based: attempt 1 is the first attempt that just failed.
//
// The raw delay grows exponentially, baseDelay * multiplier^(attempt-1),
// capped at the policy's max delay. With a non-zero jitter fraction f the
// raw delay is perturbed by a uniform draw from [-f, +f], which spreads
// retries from concurrent callers instead of synchronizing them into
// retry storms. The result is always within [0, maxDelay].
//
// Delay performs no I/O and never blocks; callers are responsible for
// sleeping. It is safe for concurrent use.
func (p *Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	raw := float64(p.baseDelay) * math.Pow(p.multiplier, float64(attempt-1))
	if raw > float64(p.maxDelay) {
		raw = float64(p.maxDelay)
	}

	if p.jitterFraction > 0 {
		jitter := (rand.Float64()*2 - 1) * p.jitterFraction
		raw *= 1 + jitter
	}

	delay := time.Duration(raw)
	if delay < 0 {
		delay = 0
	}
	if delay > p.maxDelay {
		delay = p.maxDelay
	}

	return delay
}
