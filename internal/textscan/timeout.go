// Package textscan turns raw recognized text into item/count pairs and
// provides the timeout and retry plumbing for the recognition boundary.
package textscan

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultAttemptTimeout bounds one recognition attempt.
	DefaultAttemptTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of re-attempts after the first
	// failed recognition call.
	DefaultMaxRetries = 2

	// retryBaseDelay seeds the exponential backoff between attempts.
	retryBaseDelay = 500 * time.Millisecond
)

// TimeoutError reports that a named operation exceeded its time budget.
type TimeoutError struct {
	Op       string
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Op, e.Duration)
}

// Timeout marks the error as retryable for callers that probe via the
// net.Error-style interface.
func (e *TimeoutError) Timeout() bool { return true }

// WithTimeout races fn against the given duration. On expiry it returns a
// TimeoutError naming the operation; the late result of fn is discarded. An
// error from fn before the deadline is returned unchanged.
func WithTimeout[T any](ctx context.Context, op string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{val: v, err: err}
	}()

	select {
	case out := <-done:
		return out.val, out.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return zero, &TimeoutError{Op: op, Duration: timeout}
		}
		return zero, ctx.Err()
	}
}

// Sleep suspends the caller for d or until the context is canceled.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry runs fn with a per-attempt timeout and exponential backoff between
// attempts. It makes retries+1 attempts in total and returns the last error
// when all attempts fail.
func Retry[T any](ctx context.Context, op string, retries int, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var (
		val T
		err error
	)
	delay := retryBaseDelay
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if serr := Sleep(ctx, delay); serr != nil {
				return val, serr
			}
			delay *= 2
		}
		val, err = WithTimeout(ctx, op, timeout, fn)
		if err == nil {
			return val, nil
		}
	}
	return val, fmt.Errorf("%s failed after %d attempts: %w", op, retries+1, err)
}
