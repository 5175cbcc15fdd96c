// Package deepseek provides an answer generator using the DeepSeek API.
// DeepSeek exposes an OpenAI-compatible chat completions endpoint, so the
// wire format here mirrors the openai adapter against a different base URL.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// ProviderName identifies this backend in factory lookups and error reports.
const ProviderName = "deepseek"

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.deepseek.com"
	DefaultModel     = "deepseek-chat"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 2000
)

// Config holds configuration for the DeepSeek generator.
type Config struct {
	// APIKey is the DeepSeek API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.deepseek.com).
	BaseURL string

	// Model is the model to use (default: deepseek-chat).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Generator produces answers using the DeepSeek chat completions API.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the DeepSeek /chat/completions request format.
type chatCompletionRequest struct {
	Model     string              `json:"model"`
	Messages  []chatCompletionMsg `json:"messages"`
	MaxTokens int                 `json:"max_tokens,omitempty"`
	Stream    bool                `json:"stream"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the DeepSeek /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new DeepSeek generator.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Generator{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
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

	text, err := g.chatCompletion(ctx, prompt, maxTokens)
	if err != nil {
		return "", &domain.GenerationError{Provider: ProviderName, Err: err}
	}
	return text, nil
}

// chatCompletion posts a single-turn conversation to /chat/completions.
func (g *Generator) chatCompletion(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model: g.model,
		Messages: []chatCompletionMsg{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
		Stream:    false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("deepseek error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepseek error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("deepseek: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("deepseek: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("deepseek: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("deepseek: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
