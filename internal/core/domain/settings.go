package domain

const unknownDescription = "Unknown"

// GenProvider identifies an answer-generation backend.
type GenProvider string

// Available generation providers.
const (
	// GenProviderAnthropic is the Anthropic Claude API.
	GenProviderAnthropic GenProvider = "anthropic"

	// GenProviderOpenAI is the OpenAI API.
	GenProviderOpenAI GenProvider = "openai"

	// GenProviderDeepSeek is the DeepSeek API (OpenAI-compatible wire).
	GenProviderDeepSeek GenProvider = "deepseek"

	// GenProviderGemini is the Google Gemini API.
	GenProviderGemini GenProvider = "gemini"

	// GenProviderOllama is a local Ollama instance.
	GenProviderOllama GenProvider = "ollama"
)

// IsValid returns true if the provider name is recognised.
func (p GenProvider) IsValid() bool {
	switch p {
	case GenProviderAnthropic, GenProviderOpenAI, GenProviderDeepSeek,
		GenProviderGemini, GenProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs a credential.
func (p GenProvider) RequiresAPIKey() bool {
	return p != GenProviderOllama
}

// IsLocal returns true if this provider runs locally.
func (p GenProvider) IsLocal() bool {
	return p == GenProviderOllama
}

// String returns the string representation.
func (p GenProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p GenProvider) Description() string {
	switch p {
	case GenProviderAnthropic:
		return "Anthropic Claude (cloud)"
	case GenProviderOpenAI:
		return "OpenAI (cloud)"
	case GenProviderDeepSeek:
		return "DeepSeek (cloud)"
	case GenProviderGemini:
		return "Google Gemini (cloud)"
	case GenProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// EnvKeyName returns the environment variable holding this provider's
// API key, or empty for local providers.
func (p GenProvider) EnvKeyName() string {
	switch p {
	case GenProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case GenProviderOpenAI:
		return "OPENAI_API_KEY"
	case GenProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	case GenProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// AllGenProviders returns every supported generation provider, in the
// order shown to users. The list is enumerable without instantiating
// any backend.
func AllGenProviders() []GenProvider {
	return []GenProvider{
		GenProviderAnthropic,
		GenProviderOpenAI,
		GenProviderDeepSeek,
		GenProviderGemini,
		GenProviderOllama,
	}
}

// DefaultGenModels returns the default model per generation provider.
func DefaultGenModels() map[GenProvider]string {
	return map[GenProvider]string{
		GenProviderAnthropic: "claude-sonnet-4-20250514",
		GenProviderOpenAI:    "gpt-4o",
		GenProviderDeepSeek:  "deepseek-chat",
		GenProviderGemini:    "gemini-1.5-pro",
		GenProviderOllama:    "llama3.2",
	}
}

// EmbedProvider identifies an embedding backend for vector stores that
// embed client-side.
type EmbedProvider string

// Available embedding providers.
const (
	// EmbedProviderOpenAI is the OpenAI embeddings API.
	EmbedProviderOpenAI EmbedProvider = "openai"

	// EmbedProviderOllama is a local Ollama instance.
	EmbedProviderOllama EmbedProvider = "ollama"
)

// IsValid returns true if the embedding provider is recognised.
func (p EmbedProvider) IsValid() bool {
	switch p {
	case EmbedProviderOpenAI, EmbedProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmbedProvider) String() string {
	return string(p)
}

// DefaultEmbedModels returns the default model per embedding provider.
func DefaultEmbedModels() map[EmbedProvider]string {
	return map[EmbedProvider]string{
		EmbedProviderOpenAI: "text-embedding-3-small",
		EmbedProviderOllama: "nomic-embed-text",
	}
}

// VectorBackend identifies which vector store implementation holds the
// collection.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite stores chunks and embeddings in the local
	// SQLite database, ranking by cosine similarity.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendChroma talks to a Chroma server over HTTP.
	VectorBackendChroma VectorBackend = "chroma"

	// VectorBackendMemory keeps everything in process memory.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendChroma, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Ingestion limits and chunking defaults.
const (
	// DefaultChunkSize is the chunk window in words.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the word overlap between consecutive chunks.
	DefaultChunkOverlap = 200

	// DefaultMinChunkChars drops near-empty trailing fragments.
	DefaultMinChunkChars = 100

	// DefaultMaxPDFBytes caps a fetched artifact at 50 MB.
	DefaultMaxPDFBytes = 50 * 1024 * 1024

	// DefaultMaxPages caps extraction at 500 pages.
	DefaultMaxPages = 500

	// DefaultTopK is the retrieval depth for one question.
	DefaultTopK = 5

	// DefaultMaxTokens bounds generated answers.
	DefaultMaxTokens = 2000

	// DefaultCollection is the vector collection name.
	DefaultCollection = "papers"
)

// IngestSettings holds ingestion pipeline configuration.
type IngestSettings struct {
	// ChunkSize is the chunk window in words.
	ChunkSize int

	// Overlap is the word overlap between consecutive chunks.
	// Must be strictly less than ChunkSize.
	Overlap int

	// MinChunkChars is the substance threshold in characters.
	MinChunkChars int

	// MaxPDFBytes caps fetched artifact size.
	MaxPDFBytes int64

	// MaxPages caps extraction.
	MaxPages int

	// Workers bounds concurrent per-paper processing.
	Workers int
}

// QuerySettings holds answer protocol configuration.
type QuerySettings struct {
	// TopK is the retrieval depth.
	TopK int

	// MaxTokens bounds generated answers.
	MaxTokens int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Provider is the configured generation backend.
	Provider GenProvider

	// Model overrides the provider's default model when non-empty.
	Model string

	// Embedding is the embedding backend for client-side vector stores.
	Embedding EmbedProvider

	// EmbeddingModel overrides the embedding default when non-empty.
	EmbeddingModel string

	// Backend is the vector store implementation.
	Backend VectorBackend

	// Collection is the vector collection name.
	Collection string

	// Ingest holds ingestion settings.
	Ingest IngestSettings

	// Query holds answer protocol settings.
	Query QuerySettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Cloud credentials are never defaulted; they come from the
// environment or the auth command.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Provider:   GenProviderAnthropic,
		Embedding:  EmbedProviderOpenAI,
		Backend:    VectorBackendSQLite,
		Collection: DefaultCollection,
		Ingest: IngestSettings{
			ChunkSize:     DefaultChunkSize,
			Overlap:       DefaultChunkOverlap,
			MinChunkChars: DefaultMinChunkChars,
			MaxPDFBytes:   DefaultMaxPDFBytes,
			MaxPages:      DefaultMaxPages,
			Workers:       1,
		},
		Query: QuerySettings{
			TopK:      DefaultTopK,
			MaxTokens: DefaultMaxTokens,
		},
	}
}
