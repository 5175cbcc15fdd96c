package domain

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Paper represents one scientific paper known to the pipeline.
// It is created when first returned by the paper source and is
// immutable afterwards; re-ingesting the same id overwrites the
// registry entry wholesale.
type Paper struct {
	// ID is the stable external identifier (e.g. an arXiv id).
	ID string

	// Title is the paper title as reported by the source.
	Title string

	// Authors is the ordered author list.
	Authors []string

	// Published is the publication date (YYYY-MM-DD).
	Published string

	// SourceURL is the canonical landing page for the paper.
	SourceURL string

	// PDFURL is the direct link to the PDF artifact.
	PDFURL string

	// Summary is the abstract text.
	Summary string

	// Categories are the subject classifications.
	Categories []string

	// IngestedAt is when the paper was last indexed.
	IngestedAt time.Time
}

// DisplayAuthors returns the first three authors joined for display,
// the form attached to chunk metadata and citations.
func (p Paper) DisplayAuthors() string {
	n := len(p.Authors)
	if n > 3 {
		n = 3
	}
	return strings.Join(p.Authors[:n], ", ")
}

// ChunkID derives the deterministic identifier for chunk i of this paper.
// Re-ingesting an unchanged paper therefore produces the same ids,
// which makes store writes idempotent upserts.
func (p Paper) ChunkID(i int) string {
	return fmt.Sprintf("%s_chunk_%d", p.ID, i)
}

// CacheFileName returns a filesystem-safe name for the downloaded
// artifact: the title reduced to letters, digits, spaces, hyphens and
// underscores (at most 100 characters), plus a short hash of the id so
// colliding titles never overwrite each other.
func (p Paper) CacheFileName() string {
	var b strings.Builder
	for _, r := range p.Title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= 100 {
			break
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = "paper"
	}

	h := fnv.New32a()
	h.Write([]byte(p.ID))
	return fmt.Sprintf("%s_%08x.pdf", name, h.Sum32())
}

// Chunk is a contiguous, bounded slice of a paper's extracted text.
type Chunk struct {
	// ID is the deterministic chunk identifier (see Paper.ChunkID).
	ID string

	// PaperID links to the owning Paper.
	PaperID string

	// Index is the 0-based position within the paper.
	Index int

	// Text is the chunk content.
	Text string
}

// ChunkMetadata is the metadata stored alongside each indexed chunk
// and returned with retrieval results.
type ChunkMetadata struct {
	// PaperID links back to the owning Paper.
	PaperID string

	// Title is the owning paper's title.
	Title string

	// ChunkIndex is the 0-based position within the paper.
	ChunkIndex int

	// Authors is the truncated author display string (first three).
	Authors string
}

// NewChunkMetadata builds the metadata record for chunk i of a paper.
func NewChunkMetadata(p Paper, i int) ChunkMetadata {
	return ChunkMetadata{
		PaperID:    p.ID,
		Title:      p.Title,
		ChunkIndex: i,
		Authors:    p.DisplayAuthors(),
	}
}
