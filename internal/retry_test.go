package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestWithRetry(t *testing.T) {
	transient := errors.New("transient")

	tests := []struct {
		name         string
		failures     int
		maxRetries   int
		wantAttempts int
		wantErr      bool
	}{
		{"succeeds first time", 0, 2, 1, false},
		{"succeeds after one retry", 1, 2, 2, false},
		{"succeeds on last retry", 2, 2, 3, false},
		{"exhausts budget", 5, 2, 3, true},
		{"no retries", 1, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			attempts, err := WithRetry(context.Background(), fastRetry(tt.maxRetries), func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return transient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithRetry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, transient) {
				t.Errorf("WithRetry() error = %v, want last error", err)
			}
			if attempts != tt.wantAttempts || calls != tt.wantAttempts {
				t.Errorf("WithRetry() attempts = %d (calls %d), want %d", attempts, calls, tt.wantAttempts)
			}
		})
	}
}

func TestWithRetryPermanentError(t *testing.T) {
	calls := 0
	attempts, err := WithRetry(context.Background(), fastRetry(2), func(context.Context) error {
		calls++
		return &InputError{Reason: "bad"}
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("WithRetry() error = %v, want ErrInvalidInput", err)
	}
	if attempts != 1 || calls != 1 {
		t.Errorf("WithRetry() attempts = %d, want 1", attempts)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := RetryConfig{MaxRetries: 2, BaseDelay: time.Hour, Multiplier: 2}

	attempts, err := WithRetry(ctx, config, func(context.Context) error {
		cancel()
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WithRetry() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("WithRetry() attempts = %d, want 1", attempts)
	}
}

func TestRetryDelay(t *testing.T) {
	config := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := config.delay(tt.attempt); got != tt.want {
			t.Errorf("delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	if got := DefaultRetryConfig().MaxRetries; got != 2 {
		t.Errorf("DefaultRetryConfig().MaxRetries = %d, want 2", got)
	}
}
