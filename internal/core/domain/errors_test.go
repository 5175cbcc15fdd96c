package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerationError_Error tests the error message shape
func TestGenerationError_Error(t *testing.T) {
	cause := errors.New("connection refused")
	err := &GenerationError{Provider: "anthropic", Err: cause}

	assert.Equal(t, "generation failed (provider anthropic): connection refused", err.Error())
}

// TestGenerationError_Unwrap tests cause chain traversal
func TestGenerationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &GenerationError{Provider: "openai", Err: cause}

	assert.True(t, errors.Is(err, cause))
}

// TestIsGenerationError tests detection through wrapping
func TestIsGenerationError(t *testing.T) {
	inner := &GenerationError{Provider: "gemini", Err: errors.New("quota")}
	wrapped := fmt.Errorf("answering question: %w", inner)

	genErr, ok := IsGenerationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "gemini", genErr.Provider)

	_, ok = IsGenerationError(errors.New("plain"))
	assert.False(t, ok)
}

// TestSentinelErrors tests that sentinels are distinct
func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrNotConfigured,
		ErrUnsupportedProvider,
		ErrStoreNotInitialized,
		ErrPayloadTooLarge,
		ErrPageLimitExceeded,
		ErrEmptyDocument,
		ErrNoChunks,
		ErrRateLimited,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
