package domain

// MaxTopK caps how many chunks a single question may retrieve.
// Enforced by the query layer, not the store.
const MaxTopK = 20

// AskOptions configures one question through the answer protocol.
type AskOptions struct {
	// TopK is the number of chunks to retrieve (clamped to MaxTopK).
	TopK int

	// MaxTokens bounds the generated answer length (0 = provider default).
	MaxTokens int

	// Filter restricts retrieval, e.g. to a single paper.
	Filter *QueryFilter
}

// QueryFilter narrows retrieval to matching chunks.
type QueryFilter struct {
	// PaperID restricts results to one paper when non-empty.
	PaperID string
}

// RetrievedChunk is one ranked retrieval hit.
type RetrievedChunk struct {
	// Text is the chunk content.
	Text string

	// Metadata identifies the owning paper and position.
	Metadata ChunkMetadata

	// Score is the similarity to the query, higher is better.
	Score float64
}

// CollectionStats summarises the vector store contents.
type CollectionStats struct {
	// Count is the number of indexed chunks.
	Count int

	// Name is the collection name.
	Name string
}

// Source is one cited paper in an answer, in first-retrieved order.
type Source struct {
	// PaperID identifies the paper.
	PaperID string

	// Title is the paper title.
	Title string

	// Authors is the truncated author display string.
	Authors string

	// URL is the paper's landing page, when known.
	URL string

	// Published is the publication date, when known.
	Published string
}

// Answer is the structured outcome of the answer protocol. Every
// failure path produces one of these with a human-readable,
// non-sensitive Message; internal detail stays in the logs keyed
// by ErrorID.
type Answer struct {
	// Success is false for guardrail blocks, empty stores, empty
	// retrievals and generation failures.
	Success bool

	// Text is the generated answer (empty unless Success).
	Text string

	// Sources lists cited papers, deduplicated in rank order.
	Sources []Source

	// Warning carries an advisory output-guardrail verdict, if any.
	Warning string

	// Message explains a non-success outcome.
	Message string

	// ErrorID correlates a failure with internal logs.
	ErrorID string
}
