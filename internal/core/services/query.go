package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
	"github.com/scirag-labs/scirag-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// defaultAnswerTemplate is used when no prompt store is configured or
// the store has no template for the answer prompt. The two %s verbs
// take the source-prefixed excerpts and the question.
const defaultAnswerTemplate = `You are a research assistant answering questions about scientific papers.
Use only the excerpts below to answer. Cite the paper titles you draw on.
If the excerpts do not contain enough information to answer, say so
plainly rather than guessing.

Excerpts:
%s

Question: %s

Answer:`

// User-facing outcome messages. Kept free of internal detail; the
// specifics go to the logs under the answer's error id.
const (
	msgNoPapers = "No papers have been processed yet. Ingest some papers before asking questions."

	msgNoRelevant = "I couldn't find relevant information in the processed papers to answer your question."

	msgGenerationFailed = "Answer generation failed (provider %s). Please try again or switch providers."
)

// QueryService runs the end-to-end answer protocol: input guardrail,
// retrieval, generation, output guardrail, citation assembly.
type QueryService struct {
	vector     driven.VectorStore
	registry   driven.PaperRegistry
	generator  driven.Generator
	guardrail  *GuardrailEvaluator
	prompts    driven.PromptStore
	collection string

	defaultTopK      int
	defaultMaxTokens int
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithPromptStore overrides the embedded answer template.
func WithPromptStore(store driven.PromptStore) QueryOption {
	return func(s *QueryService) { s.prompts = store }
}

// WithCollection sets the collection the service queries. Defaults to
// domain.DefaultCollection.
func WithCollection(name string) QueryOption {
	return func(s *QueryService) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithDefaultTopK sets the retrieval depth used when a request leaves
// TopK at zero.
func WithDefaultTopK(k int) QueryOption {
	return func(s *QueryService) {
		if k > 0 {
			s.defaultTopK = k
		}
	}
}

// WithDefaultMaxTokens sets the answer length bound used when a
// request leaves MaxTokens at zero.
func WithDefaultMaxTokens(n int) QueryOption {
	return func(s *QueryService) {
		if n > 0 {
			s.defaultMaxTokens = n
		}
	}
}

// NewQueryService creates a query service.
func NewQueryService(
	vector driven.VectorStore,
	registry driven.PaperRegistry,
	generator driven.Generator,
	guardrail *GuardrailEvaluator,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		vector:           vector,
		registry:         registry,
		generator:        generator,
		guardrail:        guardrail,
		collection:       domain.DefaultCollection,
		defaultTopK:      domain.DefaultTopK,
		defaultMaxTokens: domain.DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers a question over the indexed papers. Every outcome,
// including guardrail blocks and backend failures, is a structured
// Answer; the error return is reserved for contract violations such
// as an uninitialised store.
//
//nolint:gocyclo // Protocol with necessary sequential steps
func (s *QueryService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	logger.Section("Answer Protocol")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	// 1. Input guardrail. Blocking: no retrieval or generation happens
	// for an unsafe question.
	if verdict := s.guardrail.CheckInput(question); !verdict.Safe {
		logger.Info("Input blocked: %s", verdict.Kind)
		return &domain.Answer{
			Success: false,
			Message: verdict.Message,
		}, nil
	}

	// 2. Anything indexed yet? Each CLI invocation is a fresh process,
	// so the collection must be opened (never reset) before the store
	// will answer.
	if err := s.vector.EnsureCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}
	stats, err := s.vector.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection stats: %w", err)
	}
	papers, err := s.registry.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry count: %w", err)
	}
	if stats.Count == 0 || papers == 0 {
		return &domain.Answer{
			Success: false,
			Message: msgNoPapers,
		}, nil
	}

	// 3. Retrieve, with the depth clamped here rather than the store.
	topK := opts.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > domain.MaxTopK {
		topK = domain.MaxTopK
	}

	chunks, err := s.vector.Query(ctx, question, topK, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("retrieve chunks: %w", err)
	}
	if len(chunks) == 0 {
		return &domain.Answer{
			Success: false,
			Message: msgNoRelevant,
		}, nil
	}
	logger.Debug("Retrieved %d chunks", len(chunks))

	// 4. Assemble the prompt.
	prompt := s.buildPrompt(question, chunks)

	// 5. Generate.
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.defaultMaxTokens
	}

	response, err := s.generator.Generate(ctx, prompt, maxTokens)
	if err != nil {
		errorID := uuid.NewString()
		logger.Error("Generation failed [%s]: %v", errorID, err)
		return &domain.Answer{
			Success: false,
			Message: fmt.Sprintf(msgGenerationFailed, s.generator.Name()),
			ErrorID: errorID,
		}, nil
	}

	// 6. Output guardrail. Advisory: a flagged answer is still
	// returned, with the verdict attached as a warning, because the
	// heuristics have false positives and must not suppress a
	// potentially correct answer.
	var warning string
	contexts := make([]string, len(chunks))
	for i, c := range chunks {
		contexts[i] = c.Text
	}
	if verdict := s.guardrail.CheckOutput(response, contexts, question); !verdict.Safe {
		logger.Info("Output flagged: %s", verdict.Kind)
		warning = verdict.Message
	}

	// 7. Citations: first occurrence per paper id, in rank order.
	sources := s.collectSources(ctx, chunks)

	return &domain.Answer{
		Success: true,
		Text:    response,
		Sources: sources,
		Warning: warning,
	}, nil
}

// buildPrompt wraps the retrieved chunks and the question in the
// instructional template, each chunk prefixed with its source title.
func (s *QueryService) buildPrompt(question string, chunks []domain.RetrievedChunk) string {
	var excerpts strings.Builder
	for _, c := range chunks {
		title := c.Metadata.Title
		if title == "" {
			title = c.Metadata.PaperID
		}
		fmt.Fprintf(&excerpts, "[From: %s]\n%s\n\n", title, c.Text)
	}

	template := defaultAnswerTemplate
	if s.prompts != nil {
		if loaded, err := s.prompts.Load(driven.PromptAnswer); err == nil && loaded != "" {
			template = loaded
		}
	}

	return fmt.Sprintf(template, strings.TrimRight(excerpts.String(), "\n"), question)
}

// collectSources deduplicates chunk metadata by paper id, preserving
// first-seen rank order, and resolves each against the registry.
func (s *QueryService) collectSources(ctx context.Context, chunks []domain.RetrievedChunk) []domain.Source {
	seen := make(map[string]bool)
	sources := make([]domain.Source, 0, len(chunks))

	for _, c := range chunks {
		id := c.Metadata.PaperID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		source := domain.Source{
			PaperID: id,
			Title:   c.Metadata.Title,
			Authors: c.Metadata.Authors,
		}
		if paper, err := s.registry.Get(ctx, id); err == nil {
			source.Title = paper.Title
			source.Authors = paper.DisplayAuthors()
			source.URL = paper.SourceURL
			source.Published = paper.Published
		}
		sources = append(sources, source)
	}

	return sources
}
