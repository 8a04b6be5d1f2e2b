package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 1000 * time.Millisecond
	DefaultMaxDelay     = 8000 * time.Millisecond
)

// RetryPolicy controls how failed generation attempts are retried. The delay
// doubles after every failed attempt, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// ShouldRetry decides whether a failure is transient. Nil means
	// DefaultShouldRetry.
	ShouldRetry func(error) bool
}

// DefaultRetryPolicy returns the policy used when a Config leaves it unset.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
	}
}

func (p RetryPolicy) Validate() error {
	var err error
	if p.MaxAttempts < 1 {
		err = errors.Join(err, fmt.Errorf("maxAttempts must be at least 1, got %d", p.MaxAttempts))
	}
	if p.InitialDelay <= 0 {
		err = errors.Join(err, fmt.Errorf("initialDelay must be positive, got %s", p.InitialDelay))
	}
	if p.MaxDelay < p.InitialDelay {
		err = errors.Join(err, fmt.Errorf("maxDelay %s must not be below initialDelay %s", p.MaxDelay, p.InitialDelay))
	}

	return err
}

// Delay returns the wait after the given failed attempt (1-based):
// min(InitialDelay * 2^(attempt-1), MaxDelay).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := p.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay || delay < 0 {
			return p.MaxDelay
		}
	}

	if delay > p.MaxDelay {
		return p.MaxDelay
	}

	return delay
}

// Next reports whether the given failed attempt (1-based) should be retried,
// and the wait before the next attempt. It is a pure function of the policy,
// the attempt count, and the failure.
func (p RetryPolicy) Next(attempt int, err error) (bool, time.Duration) {
	if attempt >= p.MaxAttempts {
		return false, 0
	}

	shouldRetry := p.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = DefaultShouldRetry
	}
	if !shouldRetry(err) {
		return false, 0
	}

	return true, p.Delay(attempt)
}

// ExecuteWithRetry runs op until it succeeds, the policy's attempt budget is
// exhausted, or the failure is classified as non-transient. The terminal
// failure is returned unchanged. Waits between attempts honor ctx
// cancellation; an in-flight op call is never interrupted.
func ExecuteWithRetry[T any](ctx context.Context, logger *zap.Logger, policy RetryPolicy, op func() (T, error)) (T, error) {
	var zero T

	if logger == nil {
		logger = zap.NewNop()
	}

	if err := policy.Validate(); err != nil {
		return zero, fmt.Errorf("invalid retry policy: %w", err)
	}

	for attempt := 1; ; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}

		retry, delay := policy.Next(attempt, err)
		if !retry {
			logger.Error("generation failed permanently",
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return zero, err
		}

		logger.Warn("generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", policy.MaxAttempts),
			zap.String("error", err.Error()),
		)
		logger.Debug("waiting before next attempt", zap.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
