package llm

import (
	"context"
	"errors"
	"time"

	"github.com/candlewick-labs/dataroom-mcp/internal/logger"
)

// Default retry configuration for rate-limited completion calls.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
)

// Policy is a bounded retry policy for completion calls. Only rate-limit
// errors are retried; any other failure is returned immediately.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay scales the backoff schedule.
	BaseDelay time.Duration
}

// Delay returns the backoff inserted before retry n (1-indexed). The schedule
// grows linearly in the retry count: BaseDelay * n * 2.
func (p Policy) Delay(retry int) time.Duration {
	return p.BaseDelay * time.Duration(retry) * 2
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	return p
}

// WithRetry invokes fn up to p.MaxAttempts times, sleeping p.Delay(n) before
// retry n. Retries happen only when fn fails with a *RateLimitError; other
// errors propagate at once. When every attempt is rate limited, the last
// RateLimitError is returned. Each delay respects context cancellation.
func WithRetry[T any](ctx context.Context, p Policy, log logger.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	p = p.normalized()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info("Completion succeeded on attempt %d/%d", attempt, p.MaxAttempts)
			}
			return result, nil
		}

		var rateLimited *RateLimitError
		if !errors.As(err, &rateLimited) {
			return zero, err
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay(attempt)
		log.Warn("Rate limited on attempt %d/%d, retrying in %v", attempt, p.MaxAttempts, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
