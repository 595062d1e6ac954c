package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks transport failures talking to a remote cache backend.
var ErrNetwork = errors.New("network error")

// RetryableError marks a failure worth retrying.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError; nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry schedule.
type Backoff struct {
	Attempts int
	Delay    time.Duration // wait before the second attempt; doubled after each retry
}

// DefaultBackoff is used when connecting to Redis.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, returns a non-retryable error or the
// attempts run out. It stops early when ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := 0; i < max(b.Attempts, 1); i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == b.Attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
