package internal

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryConfig allows two retries with exponential backoff
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
	}
}

func (c RetryConfig) delay(attempt int) time.Duration {
	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := time.Duration(float64(c.BaseDelay) * math.Pow(mult, float64(attempt-1)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// WithRetry calls fn until it succeeds, the retry budget is spent, or ctx
// is done. It returns the number of attempts made and the last error.
// Errors matching ErrInvalidInput are not retried.
func WithRetry(ctx context.Context, config RetryConfig, fn func(ctx context.Context) error) (int, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(config.delay(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return attempts, ctx.Err()
			case <-timer.C:
			}
			LogWarn("retrying after error (attempt %d/%d): %v", attempt+1, config.MaxRetries+1, lastErr)
		}

		attempts++
		err := fn(ctx)
		if err == nil {
			return attempts, nil
		}
		lastErr = err
		if isPermanent(err) {
			break
		}
	}

	return attempts, lastErr
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, context.Canceled)
}
