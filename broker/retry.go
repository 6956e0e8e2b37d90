package broker

import (
	"context"
	"time"
)

// RetryPolicy bounds how transient gateway failures are retried. It is
// injected into whoever drives the gateway and applied only to calls that
// fail with a retryable error; semantic rejections surface immediately.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// Backoff multiplies the delay after each failed attempt. Values at or
	// below 1 give a fixed delay.
	Backoff float64
}

// DefaultRetryPolicy retries transient failures three times with a fixed
// one-second delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Second, Backoff: 1}
}

// Do runs fn up to MaxAttempts times. Only retryable errors are retried;
// any other error, or a cancelled context, returns immediately. The last
// error is returned when all attempts are exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.Delay
	var err error
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(); err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if p.Backoff > 1 {
				delay = time.Duration(float64(delay) * p.Backoff)
			}
		}
	}
	return err
}
