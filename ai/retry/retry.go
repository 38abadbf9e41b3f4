// Package retry provides a reusable exponential backoff policy for
// calls against flaky upstream services.
package retry

import (
	"context"
	"time"

	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/logger"
)

// Default backoff parameters
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Policy defines how failed calls are retried. The zero value is not
// usable; construct with NewPolicy or fill every field.
type Policy struct {
	MaxAttempts int           // Total attempts including the first (>= 1)
	BaseDelay   time.Duration // Delay before the second attempt
	MaxDelay    time.Duration // Ceiling for the backoff delay (0 = no ceiling)
	Classify    Classifier    // nil = retry every error

	// sleep is swapped out in tests to avoid real delays
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPolicy returns a Policy with the given parameters and default
// context-aware sleeping.
func NewPolicy(maxAttempts int, baseDelay, maxDelay time.Duration, classify Classifier) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		Classify:    classify,
		sleep:       sleepContext,
	}
}

// DefaultPolicy returns a Policy with stock parameters that retries
// only errors marked transient.
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultMaxAttempts, DefaultBaseDelay, DefaultMaxDelay, errors.IsTransient)
}

// WithSleep replaces the sleep function. Intended for tests.
func (p *Policy) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Policy {
	p.sleep = sleep
	return p
}

// Do runs fn up to MaxAttempts times, sleeping with exponential backoff
// between attempts. The delay before attempt n+1 is BaseDelay*2^(n-1),
// capped at MaxDelay. It stops early when fn succeeds, when the error
// is classified non-retryable, or when ctx is done. When all attempts
// fail the last error is wrapped with ErrRetryExhausted.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue is the value-returning form of Policy.Do.
func DoValue[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	delay := p.BaseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Context cancellation is never retried
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if p.Classify != nil && !p.Classify(err) {
			return zero, err
		}

		if attempt < maxAttempts {
			d := delay
			if p.MaxDelay > 0 && d > p.MaxDelay {
				d = p.MaxDelay
			}
			logger.Debugw("Retrying after transient failure",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"delay", d,
				"error", err)
			if err := sleep(ctx, d); err != nil {
				return zero, err
			}
			delay *= 2
		}
	}

	return zero, errors.Wrapf(
		errors.WithSecondaryError(errors.ErrRetryExhausted, lastErr),
		"all %d attempts failed: %v", maxAttempts, lastErr)
}

// sleepContext sleeps for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
