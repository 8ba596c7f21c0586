package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

func TestNewPolicy_Validation(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		baseDelay   time.Duration
		opts        []PolicyOption
		expectError bool
	}{
		{
			name:        "valid minimal policy",
			maxAttempts: 1,
			baseDelay:   time.Millisecond,
		},
		{
			name:        "valid with options",
			maxAttempts: 5,
			baseDelay:   100 * time.Millisecond,
			opts: []PolicyOption{
				WithMaxDelay(time.Second),
				WithMultiplier(1.5),
				WithJitterFraction(0.3),
				WithPerAttemptTimeout(time.Second),
			},
		},
		{
			name:        "zero max attempts",
			maxAttempts: 0,
			baseDelay:   time.Millisecond,
			expectError: true,
		},
		{
			name:        "zero base delay",
			maxAttempts: 3,
			baseDelay:   0,
			expectError: true,
		},
		{
			name:        "negative base delay",
			maxAttempts: 3,
			baseDelay:   -time.Second,
			expectError: true,
		},
		{
			name:        "max delay below base delay",
			maxAttempts: 3,
			baseDelay:   time.Second,
			opts:        []PolicyOption{WithMaxDelay(time.Millisecond)},
			expectError: true,
		},
		{
			name:        "multiplier below one",
			maxAttempts: 3,
			baseDelay:   time.Millisecond,
			opts:        []PolicyOption{WithMultiplier(0.5)},
			expectError: true,
		},
		{
			name:        "jitter fraction above one",
			maxAttempts: 3,
			baseDelay:   time.Millisecond,
			opts:        []PolicyOption{WithJitterFraction(1.5)},
			expectError: true,
		},
		{
			name:        "negative jitter fraction",
			maxAttempts: 3,
			baseDelay:   time.Millisecond,
			opts:        []PolicyOption{WithJitterFraction(-0.1)},
			expectError: true,
		},
		{
			name:        "negative per-attempt timeout",
			maxAttempts: 3,
			baseDelay:   time.Millisecond,
			opts:        []PolicyOption{WithPerAttemptTimeout(-time.Second)},
			expectError: true,
		},
		{
			name:        "nil condition",
			maxAttempts: 3,
			baseDelay:   time.Millisecond,
			opts:        []PolicyOption{WithCondition(nil)},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewPolicy(tt.maxAttempts, tt.baseDelay, tt.opts...)
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if policy != nil {
					t.Error("Expected nil policy on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if policy == nil {
				t.Fatal("Expected policy, got nil")
			}
		})
	}
}

func TestNewPolicy_MaxDelayDefaultsAboveBaseDelay(t *testing.T) {
	// a base delay above the 30s default cap must not make the policy invalid
	policy, err := NewPolicy(2, time.Minute)
	if err != nil {
		t.Fatalf("NewPolicy failed: %v", err)
	}
	if got := policy.Delay(1); got != time.Minute {
		t.Errorf("Delay(1) = %v, want 1m", got)
	}
}

func TestDefaultCondition(t *testing.T) {
	timeoutish := &fakeNetError{timeout: true}
	nonTimeout := &fakeNetError{timeout: false}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"attempt timeout", ErrAttemptTimeout, true},
		{"wrapped attempt timeout", errors.Join(errors.New("call failed"), ErrAttemptTimeout), true},
		{"marked retryable", types.MarkRetryable(errors.New("503")), true},
		{"marked permanent", types.MarkPermanent(errors.New("400")), false},
		{"timeout interface true", timeoutish, true},
		{"timeout interface false", nonTimeout, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultCondition(tt.err); got != tt.want {
				t.Errorf("DefaultCondition(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string { return "fake net error" }
func (e *fakeNetError) Timeout() bool { return e.timeout }
