// SPDX-License-Identifier: MIT

package resilience

import (
	"context"
	"math"
	"time"

	"github.com/fretline/discovery/internal/model"
	"github.com/fretline/discovery/internal/ports"
)

// RetryPolicy implements the ModelRetry replacement from spec.md §9: up to
// MaxRetries additional tries on a Kind.Retryable() error, exponential
// backoff from BaseDelay with ±JitterFraction jitter.
type RetryPolicy struct {
	MaxRetries     int
	BaseDelay      time.Duration
	JitterFraction float64

	Clock  ports.Clock
	Random ports.RandomSource
}

// DefaultRetryPolicy matches spec.md §4.6: up to 2 retries, base 1s, ±25%.
func DefaultRetryPolicy(random ports.RandomSource) RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		BaseDelay:      time.Second,
		JitterFraction: 0.25,
		Clock:          ports.RealClock{},
		Random:         random,
	}
}

// Do runs fn, retrying on retryable errors per policy. It stops early on
// context cancellation or a non-retryable error, and never retries past
// MaxRetries attempts.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return model.NewError(model.KindCancelled, "retry", "context cancelled before attempt", ctx.Err())
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if !model.KindOf(lastErr).Retryable() {
			return lastErr
		}
		if attempt == p.MaxRetries {
			break
		}

		delay := p.backoff(attempt)
		select {
		case <-ctx.Done():
			return model.NewError(model.KindCancelled, "retry", "context cancelled during backoff", ctx.Err())
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	if p.Random == nil {
		return time.Duration(base)
	}
	jitter := (p.Random.Float64()*2 - 1) * p.JitterFraction * base
	d := base + jitter
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
