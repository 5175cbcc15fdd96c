// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// ExtractorName identifies this extractor.
const ExtractorName = "pdf"

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads PDF bytes page by page. Each page's text is
// prefixed with a page marker so downstream chunks retain a coarse
// position reference.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return ExtractorName
}

// Extract returns the document text with per-page markers. Documents
// over the page cap fail with ErrPageLimitExceeded; documents whose
// pages yield no text fail with ErrEmptyDocument. Individual
// unreadable pages are skipped.
func (e *Extractor) Extract(ctx context.Context, data []byte, maxPages int) (text string, err error) {
	// The parser panics on some malformed files; surface those as
	// ordinary extraction errors.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	if len(data) == 0 {
		return "", domain.ErrEmptyDocument
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	if maxPages > 0 && total > maxPages {
		return "", fmt.Errorf("%w: %d pages (limit %d)", domain.ErrPageLimitExceeded, total, maxPages)
	}

	var sb strings.Builder
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "\n--- Page %d ---\n%s", i, pageText)
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", domain.ErrEmptyDocument
	}
	return sb.String(), nil
}
