// Package retry implements bounded, policy-driven retries for remote
// operations: exponential backoff with optional jitter, a per-attempt
// deadline, and explicit failure classification.
//
// Key pieces:
//
//  1. Policy: immutable retry configuration — attempt budget, base/max
//     delay, multiplier, jitter fraction, per-attempt timeout, and the
//     Condition that decides which errors are worth retrying.
//
//  2. Delay: pure backoff computation. For a policy with base delay b and
//     multiplier m, attempt n backs off min(maxDelay, b*m^(n-1)), perturbed
//     by the jitter fraction and clamped to [0, maxDelay].
//
//  3. RunWithTimeout: one attempt under a deadline. Too-slow attempts are
//     turned into ErrAttemptTimeout; cancellation of the attempt context is
//     cooperative.
//
//  4. Executor: the loop tying it together, with cumulative Stats and
//     optional EventHandler hooks.
//
// Basic usage:
//
//	policy, err := retry.NewPolicy(3, 100*time.Millisecond,
//		retry.WithMaxDelay(5*time.Second),
//		retry.WithJitterFraction(0.2),
//		retry.WithPerAttemptTimeout(2*time.Second))
//	if err != nil {
//		return err
//	}
//
//	executor, err := retry.NewExecutor(policy)
//	if err != nil {
//		return err
//	}
//
//	result, err := retry.Execute(executor, ctx, func(ctx context.Context) (string, error) {
//		return fetchSomething(ctx)
//	})
//
// Classification:
//
// By default timeouts and errors wrapped with types.MarkRetryable are
// retried; context errors and everything else fail immediately. Install a
// custom Condition to map your transport's taxonomy (HTTP 5xx/429, gRPC
// UNAVAILABLE, connection resets) onto retry decisions:
//
//	policy, err := retry.NewPolicy(5, time.Second,
//		retry.WithCondition(func(err error) bool {
//			return isTransient(err)
//		}))
//
// The executor never logs and never suppresses errors; it classifies,
// wraps on exhaustion, and returns. Pair it with breaker.Breaker through
// the caller package to stop retry storms against a dependency that is
// down rather than slow.
//
// Thread safety: Policy is immutable; Executor may be shared freely across
// goroutines.
package retry
