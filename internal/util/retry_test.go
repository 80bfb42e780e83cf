package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func withNoSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := retrySleepFunc
	retrySleepFunc = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	t.Cleanup(func() { retrySleepFunc = orig })
	return &delays
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	delays := withNoSleep(t)

	calls := 0
	got, err := Retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: time.Second}, func(ctx context.Context, attempt int) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("Expected ok after 1 call, got %q after %d", got, calls)
	}
	if len(*delays) != 0 {
		t.Errorf("Expected no sleeps, got %v", *delays)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	delays := withNoSleep(t)

	got, err := Retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: 2 * time.Second}, func(ctx context.Context, attempt int) (int, error) {
		if attempt < 3 {
			return 0, errors.New("malformed")
		}
		return attempt, nil
	})
	if err != nil {
		t.Fatalf("Expected success on third attempt, got %v", err)
	}
	if got != 3 {
		t.Errorf("Expected result 3, got %d", got)
	}
	if len(*delays) != 2 || (*delays)[0] != 2*time.Second || (*delays)[1] != 2*time.Second {
		t.Errorf("Expected two constant 2s delays, got %v", *delays)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	withNoSleep(t)

	boom := errors.New("boom")
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{Attempts: 3}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected last error to be wrapped, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	withNoSleep(t)

	permanent := errors.New("401 unauthorized")
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{
		Attempts:  5,
		Retryable: func(err error) bool { return !errors.Is(err, permanent) },
	}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Expected permanent error, got %v", err)
	}
	if errors.Is(err, ErrRetriesExhausted) {
		t.Error("Non-retryable error should not report exhaustion")
	}
	if calls != 1 {
		t.Errorf("Expected 1 attempt, got %d", calls)
	}
}

func TestRetry_ExponentialBackoff(t *testing.T) {
	delays := withNoSleep(t)

	_, _ = Retry(context.Background(), RetryPolicy{Attempts: 4, Backoff: time.Second, Multiplier: 2}, func(ctx context.Context, attempt int) (int, error) {
		return 0, errors.New("fail")
	})

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("Expected %d delays, got %v", len(want), *delays)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Errorf("Delay %d: expected %v, got %v", i, want[i], (*delays)[i])
		}
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	withNoSleep(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, RetryPolicy{Attempts: 3}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", calls)
	}
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, _ = Retry(context.Background(), RetryPolicy{}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("fail")
	})
	if calls != 1 {
		t.Errorf("Expected 1 attempt, got %d", calls)
	}
}
