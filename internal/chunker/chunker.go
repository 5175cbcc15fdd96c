// Package chunker splits extracted paper text into overlapping,
// word-bounded segments.
package chunker

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the default window size in words.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between consecutive windows in words.
const DefaultOverlap = 200

// DefaultMinChars is the default substance threshold in characters.
// Chunks whose trimmed text is shorter are dropped, never indexed.
const DefaultMinChars = 100

// Chunker splits text by sliding a fixed word window.
// Split is a pure function: the same input always yields the same
// sequence, which re-ingestion relies on for idempotent ids.
type Chunker struct {
	chunkSize int
	overlap   int
	minChars  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// WithMinChars sets the substance threshold in characters.
func WithMinChars(n int) Option {
	return func(c *Chunker) {
		c.minChars = n
	}
}

// New creates a chunker with the given options. Overlap must be
// strictly less than the chunk size; violating it is a configuration
// error, reported rather than silently adjusted.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		minChars:  DefaultMinChars,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", c.chunkSize)
	}
	if c.overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", c.overlap)
	}
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("overlap %d must be less than chunk size %d", c.overlap, c.chunkSize)
	}
	if c.minChars < 0 {
		return nil, fmt.Errorf("min chars must be non-negative, got %d", c.minChars)
	}

	return c, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split divides text into overlapping word windows. Windows advance by
// chunkSize-overlap words; the final window may be shorter. Chunks
// below the substance threshold are dropped, so near-empty trailing
// fragments never reach the index.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	estimated := (len(words) / stride) + 1
	chunks := make([]string, 0, estimated)

	for start := 0; start < len(words); start += stride {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunk := strings.Join(words[start:end], " ")
		if len(strings.TrimSpace(chunk)) < c.minChars {
			continue
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}
