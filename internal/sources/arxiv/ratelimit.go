package arxiv

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// FetchInterval is the minimum spacing between arXiv requests, per
	// the API terms of use (one request every three seconds).
	FetchInterval = 3 * time.Second

	// RetryAfterFallback is the cool-down applied when a throttle
	// response carries no usable Retry-After header.
	RetryAfterFallback = 5 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"
)

// Gate serialises arXiv requests across all callers sharing a Source.
// A token bucket enforces the minimum spacing proactively; throttle
// responses extend the wait reactively.
type Gate struct {
	mu        sync.Mutex
	bucket    *rate.Limiter
	coolUntil time.Time
	now       func() time.Time
}

// NewGate creates a gate spaced at the arXiv fetch interval.
func NewGate() *Gate {
	return newGate(FetchInterval)
}

func newGate(interval time.Duration) *Gate {
	return &Gate{
		bucket: rate.NewLimiter(rate.Every(interval), 1),
		now:    time.Now,
	}
}

// Wait blocks until a request may be sent.
func (g *Gate) Wait(ctx context.Context) error {
	if err := g.bucket.Wait(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	until := g.coolUntil
	now := g.now()
	g.mu.Unlock()

	if now.Before(until) {
		timer := time.NewTimer(until.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// CheckResponse inspects a response for throttling. On HTTP 429 or 503
// it records the cool-down and returns a RateLimitError; otherwise nil.
func (g *Gate) CheckResponse(resp *http.Response) error {
	if resp == nil {
		return nil
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return nil
	}

	resetAt := g.now().Add(parseRetryAfter(resp.Header.Get(HeaderRetryAfter)))

	g.mu.Lock()
	if resetAt.After(g.coolUntil) {
		g.coolUntil = resetAt
	}
	g.mu.Unlock()

	return &RateLimitError{ResetAt: resetAt}
}

// CoolDownUntil returns the current reactive cool-down deadline.
func (g *Gate) CoolDownUntil() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coolUntil
}

// parseRetryAfter interprets a Retry-After header value, which may be
// an integer number of seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return RetryAfterFallback
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
		return 0
	}
	return RetryAfterFallback
}
