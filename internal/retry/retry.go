// Package retry runs operations with bounded retries and exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/winkovo0818/boss-copilot/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultAttempts     = 3
	DefaultInitialDelay = time.Second
)

var defaultWait = utils.WaitFor

// waitFor is swapped in tests to observe backoff delays without sleeping.
var waitFor = defaultWait

// Policy bounds a retry loop. The delay doubles after every failed attempt,
// so the default policy waits 1s and then 2s before giving up.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
}

// DefaultPolicy returns the 3-attempts/1s policy used for AI calls.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, InitialDelay: DefaultInitialDelay}
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}
	return p
}

// ExhaustedError wraps the last error after all attempts failed. The wrapped
// error stays inspectable so callers can classify the failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("still failing after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do executes op until it succeeds, the policy is exhausted, or the context is
// cancelled. Backoff waits are context-aware and never block the caller's
// goroutine past cancellation.
func Do[T any](ctx context.Context, policy Policy, logger *zap.Logger, op func(context.Context) (T, error)) (T, error) {
	policy = policy.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	var zero T
	var lastErr error
	delay := policy.InitialDelay

	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		logger.Warn("attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.Attempts),
			zap.Error(err),
		)

		if attempt == policy.Attempts {
			break
		}

		logger.Debug("waiting before next attempt", zap.Duration("delay", delay))
		if err := waitFor(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}

	return zero, &ExhaustedError{Attempts: policy.Attempts, Err: lastErr}
}
