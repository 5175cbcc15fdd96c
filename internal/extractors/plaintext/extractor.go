// Package plaintext passes text documents through with UTF-8
// sanitation, for ingesting .txt and .md files.
package plaintext

import (
	"context"
	"strings"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// ExtractorName identifies this extractor.
const ExtractorName = "plaintext"

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles documents that are already plain text.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return ExtractorName
}

// Extract sanitises the bytes into valid UTF-8 text: invalid
// sequences and NUL bytes are dropped, line endings normalised, and a
// leading byte-order mark removed. The page cap does not apply to
// text documents. Whitespace-only input fails with ErrEmptyDocument.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", domain.ErrEmptyDocument
	}

	text := string(data)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}
