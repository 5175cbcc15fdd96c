package driven

import "context"

// TextExtractor turns raw document bytes into plain text.
//
// Empty output is reported as domain.ErrEmptyDocument and a document
// over the page cap as domain.ErrPageLimitExceeded; both are expected
// per-document outcomes, not faults.
type TextExtractor interface {
	// Name returns the extractor name (e.g. "pdf").
	Name() string

	// Extract returns the document's plain text. maxPages caps how
	// much of the document is read; 0 means no cap.
	Extract(ctx context.Context, data []byte, maxPages int) (string, error)
}
