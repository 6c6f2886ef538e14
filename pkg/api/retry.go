package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"slices"
	"time"

	httputil "github.com/lepinkainen/babble/pkg/http"
)

// RetryPolicy defines the configuration for retry behavior
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	RetryableErrors   []int // HTTP status codes that should trigger retries
}

// DefaultRetryPolicy returns a sensible default retry policy
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// NoRetryPolicy performs a single attempt.
func NoRetryPolicy() *RetryPolicy {
	return &RetryPolicy{MaxAttempts: 1}
}

// CalculateBackoff calculates the backoff duration for a given attempt
func (rp *RetryPolicy) CalculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := float64(rp.InitialBackoff) * math.Pow(rp.BackoffMultiplier, float64(attempt-1))
	if backoff > float64(rp.MaxBackoff) {
		backoff = float64(rp.MaxBackoff)
	}

	return time.Duration(backoff)
}

// IsRetryableError checks if an error should trigger a retry
func (rp *RetryPolicy) IsRetryableError(err error) bool {
	if err == nil || IsTerminal(err) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if len(rp.RetryableErrors) > 0 {
			return slices.Contains(rp.RetryableErrors, httpErr.StatusCode)
		}
		return httputil.IsRetryableStatusCode(httpErr.StatusCode)
	}

	// Network timeouts are transient
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// backoffFor picks the wait before the next attempt, honoring a server-provided
// delay when it fits inside MaxBackoff.
func (rp *RetryPolicy) backoffFor(attempt int, err error) time.Duration {
	backoff := rp.CalculateBackoff(attempt)

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > backoff && httpErr.RetryAfter <= rp.MaxBackoff {
		backoff = httpErr.RetryAfter
	}
	return backoff
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// ExecuteWithRetry executes an operation with retry logic. Waiting between
// attempts stops early when ctx is cancelled.
func ExecuteWithRetry(ctx context.Context, operation RetryableOperation, policy *RetryPolicy, operationName string) error {
	if policy == nil {
		policy = NoRetryPolicy()
	}

	var lastErr error
	attempts := max(policy.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := policy.backoffFor(attempt-1, lastErr)
			slog.Warn("Retrying operation",
				"operation", operationName,
				"attempt", attempt,
				"maxAttempts", attempts,
				"backoff", backoff,
				"lastError", lastErr)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err := operation(ctx)
		if err == nil {
			if attempt > 1 {
				slog.Info("Operation succeeded after retry",
					"operation", operationName,
					"attempt", attempt)
			}
			return nil
		}

		lastErr = err

		if !policy.IsRetryableError(err) {
			slog.Debug("Error is not retryable, stopping",
				"operation", operationName,
				"attempt", attempt,
				"error", err)
			return err
		}
	}

	return fmt.Errorf("operation %s failed after %d attempts: %w", operationName, attempts, lastErr)
}
