package driven

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing
// connectivity to the underlying AI services.
type AIConfigValidator interface {
	// ValidateGenerator validates a generation provider by pinging it
	// with the given credential and model override.
	ValidateGenerator(ctx context.Context, provider domain.GenProvider, apiKey, model string) error

	// ValidateEmbedding validates an embedding provider by pinging it.
	ValidateEmbedding(ctx context.Context, provider domain.EmbedProvider, apiKey, model string) error
}
