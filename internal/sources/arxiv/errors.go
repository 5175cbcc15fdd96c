package arxiv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// RateLimitError reports an arXiv throttle response (HTTP 429 or 503).
type RateLimitError struct {
	// ResetAt is when the server allows the next request.
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("arxiv: rate limited, retry after %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap lets callers match the rate-limit condition without importing
// this package.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// DelayHint reports the remaining server-imposed wait, for the retry
// policy.
func (e *RateLimitError) DelayHint() time.Duration {
	d := time.Until(e.ResetAt)
	if d < 0 {
		return 0
	}
	return d
}

// APIError represents a non-success arXiv API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("arxiv: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks whether the error indicates a missing paper or
// artifact.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, domain.ErrNotFound)
}

// IsRateLimited checks whether the error indicates throttling.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsRetryable classifies errors for the fetch retry policy: throttle
// responses, server-side failures and transport errors are worth
// another attempt; everything else (bad requests, parse failures,
// cancelled contexts) is terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsRateLimited(err) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
