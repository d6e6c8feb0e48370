package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// retryPolicy retries an operation with exponential backoff. The zero value
// makes a single attempt.
type retryPolicy struct {
	maxRetries int
	base       time.Duration
	max        time.Duration
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// delay returns the wait before retry number attempt (0-based).
func (p retryPolicy) delay(attempt int) time.Duration {
	if p.base <= 0 {
		return 0
	}
	d := p.base << min(attempt, 30)
	if p.max > 0 && (d <= 0 || d > p.max) {
		return p.max
	}
	return d
}

// do runs op until it succeeds, fails permanently, or retries run out.
// Permanent errors are returned unwrapped from their marker.
func (p retryPolicy) do(ctx context.Context, log *zap.Logger, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			if attempt > 0 {
				log.Info("request succeeded after retries", zap.Int("retries", attempt))
			}
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= p.maxRetries {
			if p.maxRetries > 0 {
				return fmt.Errorf("max retries (%d) exceeded: %w", p.maxRetries, err)
			}
			return err
		}

		wait := p.delay(attempt)
		log.Warn("request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled during retry wait after %d attempts: %w", attempt+1, err)
		case <-timer.C:
		}
	}
}
