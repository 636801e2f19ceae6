package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter blocks until the next operation is allowed to proceed
type Limiter interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter allows one operation per interval. The first call does not wait.
type IntervalLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewInterval returns a limiter allowing one operation every interval.
// A non-positive interval disables limiting.
func NewInterval(interval time.Duration) Limiter {
	if interval <= 0 {
		return Unlimited{}
	}
	return &IntervalLimiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the next token is available or ctx is done
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if l.limiter.Tokens() < 1 {
		slog.Debug("rate limit reached, waiting", "interval", l.interval)
	}
	return l.limiter.Wait(ctx)
}

// Unlimited never waits
type Unlimited struct{}

// Wait returns immediately unless ctx is already done
func (Unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}
