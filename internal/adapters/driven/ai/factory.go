// Package ai provides factory functions for creating generation and
// embedding backends from provider settings.
package ai

import (
	"fmt"

	ollamaembed "github.com/scirag-labs/scirag-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/scirag-labs/scirag-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/scirag-labs/scirag-cli/internal/adapters/driven/llm/anthropic"
	deepseekllm "github.com/scirag-labs/scirag-cli/internal/adapters/driven/llm/deepseek"
	geminillm "github.com/scirag-labs/scirag-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/scirag-labs/scirag-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/scirag-labs/scirag-cli/internal/adapters/driven/llm/openai"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// GeneratorConfig selects and configures a generation backend.
type GeneratorConfig struct {
	// Provider is the backend name.
	Provider domain.GenProvider

	// APIKey is the provider credential. Ignored by local providers.
	APIKey string

	// Model overrides the provider's default model when non-empty.
	Model string

	// BaseURL overrides the provider's API endpoint when non-empty.
	// Ignored by the gemini provider, whose SDK manages the endpoint.
	BaseURL string
}

// EmbeddingConfig selects and configures an embedding backend.
type EmbeddingConfig struct {
	// Provider is the backend name.
	Provider domain.EmbedProvider

	// APIKey is the provider credential. Ignored by local providers.
	APIKey string

	// Model overrides the provider's default model when non-empty.
	Model string

	// BaseURL overrides the provider's API endpoint when non-empty.
	BaseURL string
}

// ProviderInfo describes a generation provider without instantiating it.
type ProviderInfo struct {
	// Name is the provider identifier passed to NewGenerator.
	Name domain.GenProvider

	// DefaultModel is the model used when none is configured.
	DefaultModel string

	// RequiresAPIKey is false for local providers.
	RequiresAPIKey bool

	// Description is a short human-readable label.
	Description string
}

// SupportedProviders returns every generation provider this build can
// construct, in display order. No backend is contacted.
func SupportedProviders() []ProviderInfo {
	models := domain.DefaultGenModels()
	providers := domain.AllGenProviders()

	infos := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		infos = append(infos, ProviderInfo{
			Name:           p,
			DefaultModel:   models[p],
			RequiresAPIKey: p.RequiresAPIKey(),
			Description:    p.Description(),
		})
	}
	return infos
}

// NewGenerator creates the generation backend named by the config.
// Returns domain.ErrUnsupportedProvider for unknown names.
func NewGenerator(cfg GeneratorConfig) (driven.Generator, error) {
	switch cfg.Provider {
	case domain.GenProviderAnthropic:
		return anthropicllm.New(anthropicllm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case domain.GenProviderOpenAI:
		return openaillm.New(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case domain.GenProviderDeepSeek:
		return deepseekllm.New(deepseekllm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case domain.GenProviderGemini:
		return geminillm.New(geminillm.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})

	case domain.GenProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, cfg.Provider)
	}
}

// NewEmbeddingService creates the embedding backend named by the config.
// Returns domain.ErrUnsupportedProvider for unknown names.
func NewEmbeddingService(cfg EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.EmbedProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case domain.EmbedProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, cfg.Provider)
	}
}
