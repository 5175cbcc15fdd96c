package ai

import (
	"context"
	"time"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// ConfigValidator validates provider configurations by constructing the
// backend and pinging it. Used by the auth and settings commands to check
// credentials at configuration time instead of at first question.
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateGenerator validates a generation provider by pinging it.
func (v *ConfigValidator) ValidateGenerator(ctx context.Context, provider domain.GenProvider, apiKey, model string) error {
	gen, err := NewGenerator(GeneratorConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	})
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return gen.Ping(ctx)
}

// ValidateEmbedding validates an embedding provider by pinging it.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, provider domain.EmbedProvider, apiKey, model string) error {
	svc, err := NewEmbeddingService(EmbeddingConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
