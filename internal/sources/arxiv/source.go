package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
	"github.com/scirag-labs/scirag-cli/internal/sources"
)

const (
	// SourceName identifies this source.
	SourceName = "arxiv"

	// DefaultBaseURL is the arXiv Atom query endpoint.
	DefaultBaseURL = "https://export.arxiv.org/api/query"

	// PDFBaseURL is the base for PDF artifact downloads.
	PDFBaseURL = "https://arxiv.org/pdf"

	// DefaultTimeout bounds metadata API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultFetchTimeout bounds a full PDF download, header to last byte.
	DefaultFetchTimeout = 5 * time.Minute

	// DefaultMaxResults is the search result count when the caller
	// passes zero.
	DefaultMaxResults = 3

	// DefaultUserAgent identifies the client to arXiv, as its terms of
	// use request.
	DefaultUserAgent = "scirag-cli (+https://github.com/scirag-labs/scirag-cli)"
)

// Config holds the arXiv source configuration. The zero value is
// usable; empty fields fall back to the package defaults.
type Config struct {
	// BaseURL overrides the query endpoint (used by tests).
	BaseURL string

	// Timeout bounds metadata requests.
	Timeout time.Duration

	// FetchTimeout bounds PDF downloads end to end.
	FetchTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Retry is the fetch retry policy. A zero policy gets the package
	// defaults with the arXiv retryability classifier.
	Retry sources.RetryPolicy
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Retry.MaxAttempts == 0 && c.Retry.Retryable == nil {
		c.Retry = sources.DefaultRetryPolicy(IsRetryable)
	}
	return c
}

// Ensure Source implements the PaperSource interface.
var _ driven.PaperSource = (*Source)(nil)

// Source discovers papers through the arXiv query API and downloads
// their PDF artifacts. One Source is shared by all workers so that the
// request gate spaces calls globally.
type Source struct {
	cfg   Config
	gate  *Gate
	api   *http.Client
	fetch *http.Client
}

// New creates an arXiv source.
func New(cfg Config) *Source {
	cfg = cfg.withDefaults()
	return &Source{
		cfg:  cfg,
		gate: NewGate(),
		api:  &http.Client{Timeout: cfg.Timeout},
		// PDF downloads are bounded per request via the context, not a
		// client timeout, so slow large transfers are not cut off by
		// the metadata budget.
		fetch: &http.Client{},
	}
}

// Name returns the source name.
func (s *Source) Name() string {
	return SourceName
}

// Search returns up to maxResults papers matching the query, ranked by
// relevance. The query is passed to arXiv verbatim, so field prefixes
// such as cat: and au: work.
func (s *Source) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	f, err := s.queryFeed(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return f.papers(), nil
}

// Lookup resolves arXiv ids to papers. Ids may be bare, arXiv:
// prefixed, or abs/pdf URLs. Unknown ids are omitted from the result.
func (s *Source) Lookup(ctx context.Context, ids []string) ([]domain.Paper, error) {
	norm := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := NormalizeID(id); n != "" {
			norm = append(norm, n)
		}
	}
	if len(norm) == 0 {
		return nil, fmt.Errorf("%w: no paper ids given", domain.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("id_list", strings.Join(norm, ","))
	params.Set("max_results", strconv.Itoa(len(norm)))

	f, err := s.queryFeed(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("lookup %d ids: %w", len(norm), err)
	}
	return f.papers(), nil
}

// Fetch opens the paper's PDF for reading. The download is bounded by
// the fetch timeout; closing the reader releases it early.
func (s *Source) Fetch(ctx context.Context, paper domain.Paper) (io.ReadCloser, int64, error) {
	pdfURL := paper.PDFURL
	if pdfURL == "" {
		if paper.ID == "" {
			return nil, 0, fmt.Errorf("%w: paper has no id or pdf url", domain.ErrInvalidInput)
		}
		pdfURL = PDFURL(paper.ID)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)

	var resp *http.Response
	err := s.cfg.Retry.Do(fetchCtx, func(ctx context.Context) error {
		r, err := s.get(ctx, s.fetch, pdfURL)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		cancel()
		return nil, 0, fmt.Errorf("fetch pdf for %s: %w", paper.ID, err)
	}

	return &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}, resp.ContentLength, nil
}

// queryFeed issues one metadata query through the gate and retry
// policy and parses the Atom response.
func (s *Source) queryFeed(ctx context.Context, params url.Values) (*feed, error) {
	reqURL := s.cfg.BaseURL + "?" + params.Encode()

	var f *feed
	err := s.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		resp, err := s.get(ctx, s.api, reqURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		parsed, err := parseFeed(resp.Body)
		if err != nil {
			return err
		}
		f = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// get performs a single gated request and maps throttle and error
// responses to typed errors. On success the caller owns the body.
func (s *Source) get(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	if err := s.gate.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if err := s.gate.CheckResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        rawURL,
		}
	}

	return resp, nil
}

// cancelReadCloser ties the fetch context to the response body so the
// deadline is released when the caller finishes reading.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
