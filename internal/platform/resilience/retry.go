package resilience

import (
	"context"
	"time"
)

// Retry calls fn until it succeeds, reports the error as permanent, or the
// policy runs out of attempts. The pause between attempts grows linearly and
// is cut short by ctx.
func Retry(ctx context.Context, policy RetryPolicy, fn func(attempt int) (retryable bool, err error)) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		retryable, err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == maxRetries {
			break
		}

		timer := time.NewTimer(policy.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
