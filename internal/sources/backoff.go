// Package sources holds the shared plumbing for paper sources,
// currently the retry policy applied at network fetch boundaries.
package sources

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxAttempts is the total number of tries, including the first.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the delay before the first retry.
	DefaultBaseDelay = time.Second

	// DefaultMaxDelay caps the exponential growth of the retry delay.
	DefaultMaxDelay = 30 * time.Second
)

// DelayHint is implemented by errors that carry a server-imposed
// minimum delay before the next attempt, such as rate-limit responses.
// The policy honours the hint when it exceeds the computed backoff.
type DelayHint interface {
	DelayHint() time.Duration
}

// RetryPolicy retries an operation with exponential backoff. Whether
// an error is worth retrying is decided by the Retryable classifier;
// errors it rejects are returned immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the first retry; each subsequent
	// retry doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the per-retry delay.
	MaxDelay time.Duration

	// Retryable classifies errors. A nil classifier retries nothing.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns a policy with the package defaults and
// the given classifier.
func DefaultRetryPolicy(retryable func(error) bool) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		Retryable:   retryable,
	}
}

// Do runs op until it succeeds, fails terminally, or the attempt cap
// is reached. The last error is returned annotated with the attempt
// count when the cap is the reason for giving up.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		if err := p.sleep(ctx, p.delayFor(attempt, lastErr)); err != nil {
			return err
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}

// delayFor computes the backoff for the given 1-based attempt,
// honouring any server-imposed delay carried by the error.
func (p RetryPolicy) delayFor(attempt int, err error) time.Duration {
	delay := p.BaseDelay
	if delay <= 0 {
		delay = DefaultBaseDelay
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	var hint DelayHint
	if errors.As(err, &hint) {
		if d := hint.DelayHint(); d > delay {
			delay = d
		}
	}

	return delay
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
