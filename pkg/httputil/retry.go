// Package httputil provides shared HTTP plumbing: retry with exponential
// backoff and the RetryableError marker used to classify transient failures.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The encoding API client
// wraps timeouts and 5xx responses with it; anything else fails fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay between tries. Only
// errors wrapped in [RetryableError] are retried. The last error is
// returned when every attempt fails, or ctx.Err() on cancellation.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn with the client defaults: 3 attempts starting
// one second apart.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
