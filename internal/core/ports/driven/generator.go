// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// Generator produces grounded answers from assembled prompts.
// Implementations are interchangeable backends selected by name through
// the provider factory:
//
//   - Anthropic (Claude)
//   - OpenAI (GPT-4o)
//   - DeepSeek (OpenAI-compatible wire format)
//   - Google Gemini
//   - Ollama (local models)
//
// Backend failures surface as *domain.GenerationError; no retry or
// cross-provider fallback happens at this layer.
type Generator interface {
	// Name returns the provider name (e.g. "anthropic").
	Name() string

	// DefaultModel returns the model used when none is configured.
	DefaultModel() string

	// Generate produces a completion for the prompt. A maxTokens of 0
	// means the provider default (2000).
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Ping validates the backend is reachable with a lightweight request.
	// Used at startup to verify credentials before committing to a provider.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
