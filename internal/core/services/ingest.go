package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scirag-labs/scirag-cli/internal/chunker"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driving"
	"github.com/scirag-labs/scirag-cli/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.IngestOrchestrator = (*IngestOrchestrator)(nil)

// MaxIngestWorkers bounds concurrent per-paper processing. The fetch
// gate inside the source stays global, so more workers never means a
// higher request rate against the source.
const MaxIngestWorkers = 4

// IngestOrchestrator runs the fetch, extract, chunk, index pipeline.
// Each paper advances through the stages independently; a failure is
// recorded against that paper only and never aborts its siblings.
type IngestOrchestrator struct {
	source       driven.PaperSource
	pdfExtractor driven.TextExtractor
	txtExtractor driven.TextExtractor
	chunker      *chunker.Chunker
	vector       driven.VectorStore
	registry     driven.PaperRegistry
	runStore     driven.RunStore

	collection string
	cacheDir   string
	maxBytes   int64
	maxPages   int
	workers    int
}

// IngestOption configures the orchestrator.
type IngestOption func(*IngestOrchestrator)

// WithRunStore records batch runs for the history surface.
// Without it, runs are simply not recorded.
func WithRunStore(store driven.RunStore) IngestOption {
	return func(o *IngestOrchestrator) { o.runStore = store }
}

// WithCacheDir enables the download cache under dir. A cache hit skips
// the network fetch; extraction and indexing still run. Empty disables
// caching, which local sources should prefer.
func WithCacheDir(dir string) IngestOption {
	return func(o *IngestOrchestrator) { o.cacheDir = dir }
}

// WithMaxBytes overrides the fetched artifact size cap.
func WithMaxBytes(n int64) IngestOption {
	return func(o *IngestOrchestrator) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

// WithMaxPages overrides the extraction page cap.
func WithMaxPages(n int) IngestOption {
	return func(o *IngestOrchestrator) {
		if n > 0 {
			o.maxPages = n
		}
	}
}

// WithWorkers sets the concurrent paper limit, clamped to
// [1, MaxIngestWorkers].
func WithWorkers(n int) IngestOption {
	return func(o *IngestOrchestrator) {
		if n < 1 {
			n = 1
		}
		if n > MaxIngestWorkers {
			n = MaxIngestWorkers
		}
		o.workers = n
	}
}

// NewIngestOrchestrator creates an ingest orchestrator. The vector
// store's collection is opened (never reset) at the start of each
// batch.
func NewIngestOrchestrator(
	source driven.PaperSource,
	pdfExtractor driven.TextExtractor,
	txtExtractor driven.TextExtractor,
	ch *chunker.Chunker,
	vector driven.VectorStore,
	registry driven.PaperRegistry,
	collection string,
	opts ...IngestOption,
) *IngestOrchestrator {
	if collection == "" {
		collection = domain.DefaultCollection
	}

	o := &IngestOrchestrator{
		source:       source,
		pdfExtractor: pdfExtractor,
		txtExtractor: txtExtractor,
		chunker:      ch,
		vector:       vector,
		registry:     registry,
		collection:   collection,
		maxBytes:     domain.DefaultMaxPDFBytes,
		maxPages:     domain.DefaultMaxPages,
		workers:      1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessQuery searches the paper source and ingests up to maxResults
// matching papers.
func (o *IngestOrchestrator) ProcessQuery(ctx context.Context, query string, maxResults int) (*domain.BatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	papers, err := o.source.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search papers: %w", err)
	}

	return o.process(ctx, query, papers)
}

// ProcessIDs ingests specific papers by source id.
func (o *IngestOrchestrator) ProcessIDs(ctx context.Context, ids []string) (*domain.BatchResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no paper ids", domain.ErrInvalidInput)
	}

	papers, err := o.source.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup papers: %w", err)
	}

	return o.process(ctx, strings.Join(ids, ","), papers)
}

// ProcessPapers ingests already-resolved papers.
func (o *IngestOrchestrator) ProcessPapers(ctx context.Context, papers []domain.Paper) (*domain.BatchResult, error) {
	return o.process(ctx, "", papers)
}

// process runs the batch with bounded workers and records the run.
// Results land in input order regardless of completion order.
func (o *IngestOrchestrator) process(ctx context.Context, query string, papers []domain.Paper) (*domain.BatchResult, error) {
	if err := o.vector.EnsureCollection(ctx, o.collection, false); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	logger.Section("Ingestion")
	logger.Info("Processing %d papers with %d workers", len(papers), o.workers)
	started := time.Now().UTC()

	results := make([]domain.IngestResult, len(papers))

	if o.workers <= 1 {
		for i, p := range papers {
			results[i] = o.processOne(ctx, p)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, o.workers)
		for i, p := range papers {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, p domain.Paper) {
				defer wg.Done()
				defer func() { <-sem }()
				results[i] = o.processOne(ctx, p)
			}(i, p)
		}
		wg.Wait()
	}

	batch := &domain.BatchResult{}
	for _, r := range results {
		batch.Add(r)
	}

	logger.Info("Batch complete: %d succeeded, %d failed", batch.Succeeded, batch.Failed)
	o.recordRun(ctx, query, batch, started)

	return batch, nil
}

// processOne advances a single paper through fetch, extract, chunk and
// index. Every failure is converted to a per-paper result.
func (o *IngestOrchestrator) processOne(ctx context.Context, paper domain.Paper) domain.IngestResult {
	fail := func(stage domain.IngestStage, err error) domain.IngestResult {
		logger.Warn("Paper %s failed at %s: %v", paper.ID, stage, err)
		return domain.IngestResult{
			PaperID: paper.ID,
			Status:  domain.IngestFailed,
			Stage:   stage,
			Err:     err,
		}
	}

	logger.Debug("Processing paper %s: %s", paper.ID, paper.Title)

	// 1. FETCH (cache first, then the source under the byte cap)
	raw, err := o.fetch(ctx, paper)
	if err != nil {
		return fail(domain.StageFetch, err)
	}

	// 2. EXTRACT
	text, err := o.extractorFor(raw).Extract(ctx, raw.Content, o.maxPages)
	if err != nil {
		return fail(domain.StageExtract, err)
	}

	// 3. CHUNK
	chunks := o.chunker.Split(text)
	if len(chunks) == 0 {
		return fail(domain.StageChunk, domain.ErrNoChunks)
	}

	// 4. INDEX with deterministic ids and per-chunk metadata
	ids := make([]string, len(chunks))
	metas := make([]domain.ChunkMetadata, len(chunks))
	for i := range chunks {
		ids[i] = paper.ChunkID(i)
		metas[i] = domain.NewChunkMetadata(paper, i)
	}
	if err := o.vector.Add(ctx, chunks, metas, ids); err != nil {
		return fail(domain.StageIndex, fmt.Errorf("index chunks: %w", err))
	}

	// 5. REGISTER metadata, overwriting any prior entry for the id
	paper.IngestedAt = time.Now().UTC()
	if err := o.registry.Put(ctx, paper); err != nil {
		return fail(domain.StageIndex, fmt.Errorf("register paper: %w", err))
	}

	logger.Debug("Paper %s indexed: %d chunks", paper.ID, len(chunks))
	return domain.IngestResult{
		PaperID:    paper.ID,
		Status:     domain.IngestSucceeded,
		ChunkCount: len(chunks),
	}
}

// fetch returns the paper's raw bytes, from the download cache when
// possible, otherwise from the source under the byte cap.
func (o *IngestOrchestrator) fetch(ctx context.Context, paper domain.Paper) (*domain.RawPaper, error) {
	cachePath, err := o.cachePath(paper)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			logger.Debug("Cache hit for %s", paper.ID)
			return &domain.RawPaper{
				PaperID:   paper.ID,
				URI:       cachePath,
				MIMEType:  mimeTypeFor(paper),
				Content:   data,
				FromCache: true,
			}, nil
		}
	}

	r, declared, err := o.source.Fetch(ctx, paper)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", paper.ID, err)
	}
	defer r.Close()

	if declared > o.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes declared (max %d)", domain.ErrPayloadTooLarge, declared, o.maxBytes)
	}

	data, err := readCapped(r, o.maxBytes)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := os.WriteFile(cachePath, data, 0600); err != nil {
			// The cache is fetch-avoidance only; ingestion proceeds.
			logger.Warn("Failed to cache %s: %v", paper.ID, err)
		}
	}

	return &domain.RawPaper{
		PaperID:  paper.ID,
		URI:      paper.PDFURL,
		MIMEType: mimeTypeFor(paper),
		Content:  data,
	}, nil
}

// cachePath resolves the paper's download cache location, rejecting
// any derived name that would escape the cache root. Empty when
// caching is disabled.
func (o *IngestOrchestrator) cachePath(paper domain.Paper) (string, error) {
	if o.cacheDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(o.cacheDir, 0700); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	root, err := filepath.Abs(o.cacheDir)
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}

	path := filepath.Join(root, paper.CacheFileName())
	if filepath.Dir(path) != root {
		return "", fmt.Errorf("%w: cache name escapes cache dir", domain.ErrInvalidInput)
	}
	return path, nil
}

// readCapped reads the stream, aborting the instant the running count
// exceeds the cap so oversized payloads are never buffered whole.
func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	limited := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrPayloadTooLarge, maxBytes)
	}
	return data, nil
}

// extractorFor picks the extractor matching the artifact type.
func (o *IngestOrchestrator) extractorFor(raw *domain.RawPaper) driven.TextExtractor {
	if raw.MIMEType == "application/pdf" {
		return o.pdfExtractor
	}
	return o.txtExtractor
}

// mimeTypeFor derives the artifact MIME type from the paper's
// references. Local sources leave PDFURL empty and carry the file
// extension in the source URL and id instead. References without any
// recognised extension serve PDFs.
func mimeTypeFor(paper domain.Paper) string {
	for _, ref := range []string{paper.PDFURL, paper.SourceURL, paper.ID} {
		switch strings.ToLower(filepath.Ext(ref)) {
		case ".txt", ".md", ".text":
			return "text/plain"
		case ".pdf":
			return "application/pdf"
		}
	}
	return "application/pdf"
}

// recordRun saves the batch summary when a run store is configured.
func (o *IngestOrchestrator) recordRun(ctx context.Context, query string, batch *domain.BatchResult, started time.Time) {
	if o.runStore == nil {
		return
	}

	run := domain.IngestRun{
		ID:         uuid.NewString(),
		Query:      query,
		Source:     o.source.Name(),
		Total:      batch.Total,
		Succeeded:  batch.Succeeded,
		Failed:     batch.Failed,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if err := o.runStore.Save(ctx, run); err != nil {
		logger.Warn("Failed to record run: %v", err)
	}
}
