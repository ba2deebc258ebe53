package db

import (
	"context"
	"time"

	"garden-planner-go/internal/config"
	"garden-planner-go/pkg/logger"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 200 * time.Millisecond
	defaultRetryMaxDelay  = 5 * time.Second
)

// RetryPolicy re-runs store operations that fail with transient errors,
// backing off exponentially between attempts.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Log         logger.Logger
	// OnRetry is called before every repeated attempt.
	OnRetry func(op string, attempt int, err error)
}

func NewRetryPolicy(cfg config.RetryConfig, log logger.Logger) *RetryPolicy {
	policy := &RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Log:         log,
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultRetryAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = defaultRetryBaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = defaultRetryMaxDelay
	}
	return policy
}

// Do runs fn until it succeeds, fails permanently, attempts run out or ctx
// ends. A nil policy runs fn once.
func (p *RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if p == nil {
		return fn(ctx)
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) || attempt >= p.MaxAttempts {
			return err
		}

		delay := p.backoff(attempt)
		if p.Log != nil {
			p.Log.Warn("db: transient failure, retrying", "op", op, "attempt", attempt, "delay", delay.String(), "error", err)
		}
		if p.OnRetry != nil {
			p.OnRetry(op, attempt, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func (p *RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if delay <= 0 || delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}
