package model

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimited delays every generation until the limiter grants a token.
type rateLimited struct {
	next    Model
	limiter *rate.Limiter
}

// NewRateLimited wraps m so that each Generate call first waits on limiter.
// A nil limiter returns m unchanged.
func NewRateLimited(m Model, limiter *rate.Limiter) Model {
	if limiter == nil {
		return m
	}
	return &rateLimited{next: m, limiter: limiter}
}

// PerMinute builds a limiter allowing n requests per minute with a burst of one.
// It returns nil when n is not positive.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(n)/60.0), 1)
}

// Generate implements Model.
func (r *rateLimited) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	if err := r.limiter.Wait(ctx); err != nil {
		out := make(chan Response)
		errCh := make(chan error, 1)
		errCh <- fmt.Errorf("rate limit wait: %w", err)
		close(out)
		close(errCh)
		return out, errCh
	}
	return r.next.Generate(ctx, req)
}

// Info implements Model.
func (r *rateLimited) Info() Info { return r.next.Info() }
