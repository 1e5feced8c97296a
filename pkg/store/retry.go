package store

import (
	"context"
	"errors"
	"time"
)

// Retry defaults used by [Open] for network backends.
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 200 * time.Millisecond
)

// retrying retries failed loads and saves of the wrapped store.
type retrying struct {
	Store
	attempts int
	delay    time.Duration
}

// WithRetry wraps s so that Load and Save are attempted up to attempts
// times, doubling delay after each failure. [ErrNotFound], [ErrClosed] and
// context errors are returned immediately.
func WithRetry(s Store, attempts int, delay time.Duration) Store {
	return &retrying{Store: s, attempts: max(attempts, 1), delay: delay}
}

func (s *retrying) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := retry(ctx, s.attempts, s.delay, func() error {
		var err error
		data, err = s.Store.Load(ctx)
		return err
	})
	return data, err
}

func (s *retrying) Save(ctx context.Context, data []byte) error {
	return retry(ctx, s.attempts, s.delay, func() error {
		return s.Store.Save(ctx, data)
	})
}

func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for i := range attempts {
		if lastErr = fn(); lastErr == nil || !isRetryable(lastErr) {
			return lastErr
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

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrClosed):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
