package driving

import (
	"context"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetProvider updates the generation provider and optional model
	// override.
	SetProvider(provider domain.GenProvider, model string) error

	// SetEmbedding updates the embedding provider and optional model
	// override.
	SetEmbedding(provider domain.EmbedProvider, model string) error

	// SetBackend updates the vector store backend.
	SetBackend(backend domain.VectorBackend) error

	// SetAPIKey stores the API key for a provider.
	SetAPIKey(provider domain.GenProvider, key string) error

	// APIKey returns the stored or environment key for a provider,
	// environment winning.
	APIKey(provider domain.GenProvider) string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateProvider checks the configured generation provider by
	// pinging it with the stored credential.
	ValidateProvider(ctx context.Context) error
}
