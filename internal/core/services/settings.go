package services

import (
	"context"
	"fmt"
	"os"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyGenProvider   = "generation.provider"
	keyGenModel      = "generation.model"
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyVectorBackend = "vector.backend"
	keyCollection    = "vector.collection"
	keyChunkSize     = "ingest.chunk_size"
	keyChunkOverlap  = "ingest.chunk_overlap"
	keyMinChunkChars = "ingest.min_chunk_chars"
	keyMaxPages      = "ingest.max_pages"
	keyWorkers       = "ingest.workers"
	keyTopK          = "query.top_k"
	keyMaxTokens     = "query.max_tokens"
	keyAPIKeyFormat  = "auth.%s.api_key"
)

// SettingsService manages application settings on top of the config
// store. Credentials resolve environment-first so keys never need to
// touch the config file.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, falling back to defaults
// for any key the store does not hold.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Provider:       s.getGenProvider(defaults.Provider),
		Model:          s.configStore.GetString(keyGenModel), // No default - empty means provider default
		Embedding:      s.getEmbedProvider(defaults.Embedding),
		EmbeddingModel: s.configStore.GetString(keyEmbedModel),
		Backend:        s.getBackend(defaults.Backend),
		Collection:     s.getString(keyCollection, defaults.Collection),
		Ingest: domain.IngestSettings{
			ChunkSize:     s.getInt(keyChunkSize, defaults.Ingest.ChunkSize),
			Overlap:       s.getInt(keyChunkOverlap, defaults.Ingest.Overlap),
			MinChunkChars: s.getInt(keyMinChunkChars, defaults.Ingest.MinChunkChars),
			MaxPDFBytes:   defaults.Ingest.MaxPDFBytes,
			MaxPages:      s.getInt(keyMaxPages, defaults.Ingest.MaxPages),
			Workers:       s.getInt(keyWorkers, defaults.Ingest.Workers),
		},
		Query: domain.QuerySettings{
			TopK:      s.getInt(keyTopK, defaults.Query.TopK),
			MaxTokens: s.getInt(keyMaxTokens, defaults.Query.MaxTokens),
		},
	}

	if settings.Ingest.Overlap >= settings.Ingest.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			domain.ErrInvalidInput, settings.Ingest.Overlap, settings.Ingest.ChunkSize)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
	if !settings.Embedding.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Embedding)
	}
	if !settings.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, settings.Backend)
	}
	if settings.Ingest.Overlap >= settings.Ingest.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			domain.ErrInvalidInput, settings.Ingest.Overlap, settings.Ingest.ChunkSize)
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keyGenProvider, settings.Provider.String()},
		{keyGenModel, settings.Model},
		{keyEmbedProvider, settings.Embedding.String()},
		{keyEmbedModel, settings.EmbeddingModel},
		{keyVectorBackend, settings.Backend.String()},
		{keyCollection, settings.Collection},
		{keyChunkSize, settings.Ingest.ChunkSize},
		{keyChunkOverlap, settings.Ingest.Overlap},
		{keyMinChunkChars, settings.Ingest.MinChunkChars},
		{keyMaxPages, settings.Ingest.MaxPages},
		{keyWorkers, settings.Ingest.Workers},
		{keyTopK, settings.Query.TopK},
		{keyMaxTokens, settings.Query.MaxTokens},
	}

	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	return nil
}

// SetProvider updates the generation provider and optional model
// override.
func (s *SettingsService) SetProvider(provider domain.GenProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
	}

	if err := s.configStore.Set(keyGenProvider, provider.String()); err != nil {
		return fmt.Errorf("save provider: %w", err)
	}
	if err := s.configStore.Set(keyGenModel, model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// SetEmbedding updates the embedding provider and optional model
// override.
func (s *SettingsService) SetEmbedding(provider domain.EmbedProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
	}

	if err := s.configStore.Set(keyEmbedProvider, provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	return nil
}

// SetBackend updates the vector store backend.
func (s *SettingsService) SetBackend(backend domain.VectorBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, backend)
	}
	if err := s.configStore.Set(keyVectorBackend, backend.String()); err != nil {
		return fmt.Errorf("save backend: %w", err)
	}
	return nil
}

// SetAPIKey stores the API key for a provider in the config file.
func (s *SettingsService) SetAPIKey(provider domain.GenProvider, key string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%w: provider %s is local and needs no key", domain.ErrInvalidInput, provider)
	}

	if err := s.configStore.Set(fmt.Sprintf(keyAPIKeyFormat, provider), key); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// APIKey returns the credential for a provider. The environment wins
// over the config file so CI and shells can override without editing
// any state.
func (s *SettingsService) APIKey(provider domain.GenProvider) string {
	if env := provider.EnvKeyName(); env != "" {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return s.configStore.GetString(fmt.Sprintf(keyAPIKeyFormat, provider))
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateProvider checks the configured generation provider by
// pinging it with the stored credential.
func (s *SettingsService) ValidateProvider(ctx context.Context) error {
	if s.aiValidator == nil {
		return fmt.Errorf("%w: no validator wired", domain.ErrNotConfigured)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	key := s.APIKey(settings.Provider)
	if settings.Provider.RequiresAPIKey() && key == "" {
		return fmt.Errorf("%w: no API key for %s (set %s or run auth set)",
			domain.ErrNotConfigured, settings.Provider, settings.Provider.EnvKeyName())
	}

	return s.aiValidator.ValidateGenerator(ctx, settings.Provider, key, settings.Model)
}

// getString returns the config value or the default when unset.
func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

// getInt returns the config value or the default when unset or zero.
func (s *SettingsService) getInt(key string, def int) int {
	if v := s.configStore.GetInt(key); v != 0 {
		return v
	}
	return def
}

func (s *SettingsService) getGenProvider(def domain.GenProvider) domain.GenProvider {
	if v := s.configStore.GetString(keyGenProvider); v != "" {
		p := domain.GenProvider(v)
		if p.IsValid() {
			return p
		}
	}
	return def
}

func (s *SettingsService) getEmbedProvider(def domain.EmbedProvider) domain.EmbedProvider {
	if v := s.configStore.GetString(keyEmbedProvider); v != "" {
		p := domain.EmbedProvider(v)
		if p.IsValid() {
			return p
		}
	}
	return def
}

func (s *SettingsService) getBackend(def domain.VectorBackend) domain.VectorBackend {
	if v := s.configStore.GetString(keyVectorBackend); v != "" {
		b := domain.VectorBackend(v)
		if b.IsValid() {
			return b
		}
	}
	return def
}
