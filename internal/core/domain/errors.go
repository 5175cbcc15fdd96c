package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required service has not been wired up.
	ErrNotConfigured = errors.New("not configured")

	// ErrUnsupportedProvider indicates an unknown generation or embedding
	// provider name was requested from a factory.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// Store contract errors.

	// ErrStoreNotInitialized indicates Add/Query/Stats was called before
	// EnsureCollection. This is a programming error, never retried.
	ErrStoreNotInitialized = errors.New("collection not initialised")

	// Ingestion errors. Each is terminal for the affected paper only;
	// sibling papers in a batch are unaffected.

	// ErrPayloadTooLarge indicates a fetched artifact exceeded the byte cap.
	ErrPayloadTooLarge = errors.New("payload exceeds size limit")

	// ErrPageLimitExceeded indicates a PDF exceeded the page cap.
	ErrPageLimitExceeded = errors.New("page limit exceeded")

	// ErrEmptyDocument indicates extraction produced no text.
	// An expected outcome for scanned or image-only PDFs, not a fault.
	ErrEmptyDocument = errors.New("no extractable text")

	// ErrNoChunks indicates no chunk survived the substance filter.
	ErrNoChunks = errors.New("no substantive chunks")

	// ErrRateLimited indicates the paper source rate limit was exceeded
	// and retries were exhausted.
	ErrRateLimited = errors.New("rate limited")
)

// IsTerminalIngestError reports whether an ingestion failure can never
// succeed on retry: oversized payloads, page-capped or empty documents,
// substance-filtered chunks and malformed input. Everything else is
// assumed transient.
func IsTerminalIngestError(err error) bool {
	return errors.Is(err, ErrPayloadTooLarge) ||
		errors.Is(err, ErrPageLimitExceeded) ||
		errors.Is(err, ErrEmptyDocument) ||
		errors.Is(err, ErrNoChunks) ||
		errors.Is(err, ErrInvalidInput)
}

// GenerationError wraps a generation backend failure with the provider
// that produced it. Backend-specific error shapes never cross this
// boundary; callers see the provider name and a cause chain.
type GenerationError struct {
	// Provider is the generation backend name (e.g. "anthropic").
	Provider string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (provider %s): %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is a GenerationError and
// returns it for inspection.
func IsGenerationError(err error) (*GenerationError, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr, true
	}
	return nil, false
}
