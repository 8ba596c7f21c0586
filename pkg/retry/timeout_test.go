package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

func TestRunWithTimeout_Success(t *testing.T) {
	clock := types.NewRealClock()

	result, err := RunWithTimeout(context.Background(), clock, func(ctx context.Context) (string, error) {
		return "ok", nil
	}, time.Second)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %v", result)
	}
}

func TestRunWithTimeout_ErrorPassthrough(t *testing.T) {
	clock := types.NewRealClock()
	opErr := errors.New("downstream failed")

	_, err := RunWithTimeout(context.Background(), clock, func(ctx context.Context) (string, error) {
		return "", opErr
	}, time.Second)

	if err != opErr {
		t.Errorf("Expected operation error unchanged, got %v", err)
	}
}

func TestRunWithTimeout_DeadlineElapses(t *testing.T) {
	clock := types.NewRealClock()

	opCancelled := make(chan struct{})
	start := time.Now()
	_, err := RunWithTimeout(context.Background(), clock, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		close(opCancelled)
		return "", ctx.Err()
	}, 20*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrAttemptTimeout) {
		t.Fatalf("Expected ErrAttemptTimeout, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Expected prompt return, took %v", elapsed)
	}

	// the attempt context must have been cancelled cooperatively
	select {
	case <-opCancelled:
	case <-time.After(2 * time.Second):
		t.Error("Operation context was never cancelled")
	}
}

func TestRunWithTimeout_ZeroTimeoutDisablesDeadline(t *testing.T) {
	clock := types.NewRealClock()

	result, err := RunWithTimeout(context.Background(), clock, func(ctx context.Context) (string, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Error("Expected no deadline on attempt context")
		}
		return "ok", nil
	}, 0)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %v", result)
	}
}

func TestRunWithTimeout_ParentCancellation(t *testing.T) {
	clock := types.NewRealClock()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := RunWithTimeout(ctx, clock, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, time.Minute)

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
