package types

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMarkRetryable(t *testing.T) {
	if MarkRetryable(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	base := errors.New("boom")
	err := MarkRetryable(base)

	if !IsRetryable(err) {
		t.Error("Expected marked error to be retryable")
	}
	if !errors.Is(err, base) {
		t.Error("Expected wrapped error to match base")
	}
	if err.Error() != "boom" {
		t.Errorf("Expected message passthrough, got %q", err.Error())
	}
}

func TestMarkPermanent(t *testing.T) {
	if MarkPermanent(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	err := MarkPermanent(errors.New("bad request"))
	if IsRetryable(err) {
		t.Error("Expected permanent error to not be retryable")
	}
}

func TestIsRetryable_UnmarkedError(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("Expected plain error to not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("Expected nil to not be retryable")
	}
}

func TestIsRetryable_WrappedMarker(t *testing.T) {
	inner := MarkRetryable(errors.New("503"))
	outer := fmt.Errorf("request failed: %w", inner)

	if !IsRetryable(outer) {
		t.Error("Expected wrapped retryable marker to be found")
	}
}

func TestRetryDelay(t *testing.T) {
	if RetryDelay(errors.New("plain")) != 0 {
		t.Error("Expected zero delay for unmarked error")
	}

	err := &RetryableError{
		Err:        errors.New("rate limited"),
		Retryable:  true,
		RetryAfter: 2 * time.Second,
	}
	if got := RetryDelay(err); got != 2*time.Second {
		t.Errorf("Expected 2s, got %v", got)
	}

	wrapped := fmt.Errorf("call failed: %w", err)
	if got := RetryDelay(wrapped); got != 2*time.Second {
		t.Errorf("Expected 2s through wrapping, got %v", got)
	}
}
