// Package ratelimit paces calls with a token bucket that also honours
// server-imposed cooldowns.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/tucha-cloud/tucha/internal/logging"
)

// RateLimiter implements a token bucket rate limiter.
// It allows bursts up to maxTokens, then refills at refillRate tokens/second.
type RateLimiter struct {
	tokens        float64
	maxTokens     float64
	refillRate    float64
	lastRefill    time.Time
	cooldownUntil time.Time
	lastWarnTime  time.Time
	logger        *logging.Logger
	mu            sync.Mutex
}

// NewRateLimiter creates a rate limiter with a full bucket.
//
// Parameters:
//   - tokensPerSecond: Rate at which tokens are added (e.g., 1.0 for 1 token/second)
//   - burstSize: Maximum tokens that can accumulate
func NewRateLimiter(tokensPerSecond float64, burstSize float64) *RateLimiter {
	return &RateLimiter{
		tokens:     burstSize,
		maxTokens:  burstSize,
		refillRate: tokensPerSecond,
		lastRefill: time.Now(),
		logger:     logging.NewNopLogger(),
	}
}

// WithLogger sets the logger used for long-wait warnings.
func (rl *RateLimiter) WithLogger(logger *logging.Logger) *RateLimiter {
	if logger != nil {
		rl.logger = logger
	}
	return rl
}

// Wait blocks until a token is available and no cooldown is active, or ctx
// is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if cooldown := rl.CooldownRemaining(); cooldown > 0 {
			rl.warn(cooldown)
			if err := sleep(ctx, cooldown); err != nil {
				return err
			}
			continue
		}

		if rl.tryAcquire() {
			if waited := time.Since(start); waited > 5*time.Second {
				rl.logger.Info().Dur("waited", waited).Msg("Rate limit wait completed")
			}
			return nil
		}

		wait := rl.timeUntilNextToken()
		if wait > 2*time.Second {
			rl.warn(wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// SetCooldown blocks Wait for d. A shorter cooldown never cuts an active
// longer one.
func (rl *RateLimiter) SetCooldown(d time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(rl.cooldownUntil) {
		rl.cooldownUntil = until
	}
}

// CooldownRemaining returns how long the active cooldown lasts, or 0.
func (rl *RateLimiter) CooldownRemaining() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if d := time.Until(rl.cooldownUntil); d > 0 {
		return d
	}
	return 0
}

// Drain empties the bucket.
func (rl *RateLimiter) Drain() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = 0
	rl.lastRefill = time.Now()
}

// GetCurrentTokens returns the current number of tokens (for testing/debugging).
func (rl *RateLimiter) GetCurrentTokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.lastRefill).Seconds()
	tokens := rl.tokens + elapsed*rl.refillRate
	if tokens > rl.maxTokens {
		tokens = rl.maxTokens
	}
	return tokens
}

// tryAcquire attempts to acquire one token without blocking.
func (rl *RateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

func (rl *RateLimiter) timeUntilNextToken() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	needed := 1.0 - rl.tokens
	if needed <= 0 {
		return 0
	}
	return time.Duration(needed / rl.refillRate * float64(time.Second))
}

// warn logs at most once every 10 seconds.
func (rl *RateLimiter) warn(wait time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastWarnTime) > 10*time.Second {
		rl.logger.Warn().Dur("wait", wait).Msg("Rate limited, waiting for capacity")
		rl.lastWarnTime = time.Now()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
