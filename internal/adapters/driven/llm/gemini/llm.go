// Package gemini provides an answer generator using the Gemini API through
// the official Go SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// ProviderName identifies this backend in factory lookups and error reports.
const ProviderName = "gemini"

// Default configuration values.
const (
	DefaultModel     = "gemini-1.5-pro"
	DefaultMaxTokens = 2000
)

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-1.5-pro).
	Model string
}

// Generator produces answers using the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini generator.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Generator{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Name returns the provider name.
func (g *Generator) Name() string {
	return ProviderName
}

// DefaultModel returns the model used when none is configured.
func (g *Generator) DefaultModel() string {
	return DefaultModel
}

// Generate produces a completion for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{MaxOutputTokens: int32(maxTokens)},
	)
	if err != nil {
		return "", &domain.GenerationError{Provider: ProviderName, Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &domain.GenerationError{
			Provider: ProviderName,
			Err:      fmt.Errorf("no text content returned"),
		}
	}

	return text, nil
}

// Ping validates the service is reachable by fetching the model's metadata.
// This is a lightweight check that validates the API key without running inference.
func (g *Generator) Ping(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	// The SDK client holds no connections that need explicit cleanup
	return nil
}
