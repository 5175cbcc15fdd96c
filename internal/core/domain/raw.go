package domain

// RawPaper represents opaque bytes fetched from a paper source.
// It is the source's output before extraction.
type RawPaper struct {
	// PaperID links to the Paper the bytes belong to.
	PaperID string

	// URI is the location the bytes were fetched from (URL or file path).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// FromCache indicates the bytes were served from the download cache
	// rather than fetched over the network.
	FromCache bool
}
