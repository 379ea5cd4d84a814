package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/pagearc/pagearc"
)

// Do runs op up to policy.MaxAttempts times, sequentially, sleeping between
// attempts per the policy's backoff. After each failure the error is
// classified; a non-retryable failure aborts immediately even if attempts
// remain. Sleeps are context-aware: cancellation during a backoff returns
// ctx.Err(). A running attempt is never interrupted; the only decision point
// is whether to start the next one.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is like Do for operations that produce a value.
//
// On a non-retryable failure the error is wrapped with context
// {nonRetryable: true, attemptsMade: n}. When all attempts are exhausted the
// last error is wrapped with {totalAttempts: n}.
func DoValue[T any](ctx context.Context, policy Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if err := policy.Validate(); err != nil {
		return zero, err
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !Retryable(err) {
			return zero, pagearc.WrapError(err, Classify(err),
				fmt.Sprintf("operation failed permanently: %s", err),
				map[string]any{
					"nonRetryable": true,
					"attemptsMade": attempt,
				})
		}

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Delay(attempt)
		if policy.OnRetry != nil {
			policy.OnRetry(Attempt{
				Number: attempt,
				Next:   attempt + 1,
				Max:    policy.MaxAttempts,
				Delay:  delay,
				Err:    err,
			})
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, pagearc.WrapError(lastErr, Classify(lastErr),
		fmt.Sprintf("operation failed after %d attempts: %s", policy.MaxAttempts, lastErr),
		map[string]any{
			"totalAttempts": policy.MaxAttempts,
		})
}
