package api

import (
	"context"
	"sync"
	"time"
)

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	// Wait blocks until it's safe to make another API call or ctx is done
	Wait(ctx context.Context) error
	// CanProceed returns true if a request can be made without waiting
	CanProceed() bool
}

// TokenBucketRateLimiter spreads requests over a fixed window, the way the
// Twitter API meters endpoints (N requests per 15 minutes).
type TokenBucketRateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

// NewTokenBucketRateLimiter creates a limiter holding maxTokens tokens that
// regains one token every refillRate.
func NewTokenBucketRateLimiter(maxTokens int, refillRate time.Duration) *TokenBucketRateLimiter {
	return &TokenBucketRateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// NewWindowRateLimiter creates a limiter for requests per window.
func NewWindowRateLimiter(requests int, window time.Duration) *TokenBucketRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	return NewTokenBucketRateLimiter(requests, window/time.Duration(requests))
}

// Wait blocks until a token is available
func (rl *TokenBucketRateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refillTokens()
		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		wait := rl.refillRate - time.Since(rl.lastRefill)
		rl.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// CanProceed returns true if a token is available
func (rl *TokenBucketRateLimiter) CanProceed() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillTokens()
	return rl.tokens > 0
}

func (rl *TokenBucketRateLimiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	tokensToAdd := int(elapsed / rl.refillRate)

	if tokensToAdd > 0 {
		rl.tokens = min(rl.tokens+tokensToAdd, rl.maxTokens)
		rl.lastRefill = rl.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}
}

// NoOpRateLimiter implements the RateLimiter interface but performs no rate limiting
type NoOpRateLimiter struct{}

// Wait returns immediately unless ctx is already done
func (NoOpRateLimiter) Wait(ctx context.Context) error {
	return ctx.Err()
}

// CanProceed always returns true (no rate limiting)
func (NoOpRateLimiter) CanProceed() bool {
	return true
}
