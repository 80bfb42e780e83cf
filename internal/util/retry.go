package util

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy bounds a retried operation
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first (minimum 1)
	Attempts int

	// Backoff is the delay before the second attempt
	Backoff time.Duration

	// Multiplier grows the delay between attempts; values <= 1 keep it constant
	Multiplier float64

	// Retryable decides whether an error is worth another attempt (nil retries everything)
	Retryable func(error) bool
}

// ErrRetriesExhausted is wrapped by Retry when every attempt failed
var ErrRetriesExhausted = errors.New("retries exhausted")

// retrySleepFunc waits between attempts (overridable in tests)
var retrySleepFunc = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs op until it succeeds, a non-retryable error occurs, the context
// ends, or the policy's attempts are used up. attempt is 1-based.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.Backoff
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return zero, err
		}

		result, err := op(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if policy.Retryable != nil && !policy.Retryable(err) {
			return zero, err
		}

		if attempt == attempts {
			break
		}

		if sleepErr := retrySleepFunc(ctx, delay); sleepErr != nil {
			return zero, fmt.Errorf("%w (last error: %v)", sleepErr, lastErr)
		}

		if policy.Multiplier > 1 {
			delay = time.Duration(float64(delay) * policy.Multiplier)
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr)
}
