package ai

import (
	"context"
	"time"

	"github.com/zhouzirui/calm-corner/backend/internal/observability"
)

// WithRetry wraps next with an opt-in retry policy: up to attempts calls, waiting
// delay*n before the n-th retry. attempts <= 1 returns next unchanged, which is
// the default single-attempt behaviour. Empty completions are not retried.
func WithRetry(next Generator, attempts int, delay time.Duration) Generator {
	if attempts <= 1 {
		return next
	}
	return &retryGenerator{next: next, attempts: attempts, delay: delay, sleep: sleepContext}
}

type retryGenerator struct {
	next     Generator
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func (r *retryGenerator) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		text, err := r.next.Generate(ctx, prompt, params)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt == r.attempts || ctx.Err() != nil {
			break
		}
		observability.LoggerFromContext(ctx).Warn("completion attempt failed, retrying",
			"attempt", attempt, "max_attempts", r.attempts, "error", err)
		if err := r.sleep(ctx, r.delay*time.Duration(attempt)); err != nil {
			break
		}
	}
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
