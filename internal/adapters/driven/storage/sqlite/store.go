package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scirag-labs/scirag-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// DefaultFileName is the database file name inside the data directory.
const DefaultFileName = "scirag.db"

// Store is a unified SQLite-based storage that backs the paper registry,
// the ingestion run history and the default vector store through wrapper
// types over a single connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.scirag.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scirag")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DefaultFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PaperRegistry returns a PaperRegistry interface backed by this store.
func (s *Store) PaperRegistry() driven.PaperRegistry {
	return &paperRegistry{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// VectorStore returns a VectorStore backed by this store. Chunks are
// embedded through the given service and ranked by cosine similarity.
func (s *Store) VectorStore(embedder driven.EmbeddingService) driven.VectorStore {
	return &vectorStore{store: s, embedder: embedder}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Paper Registry ====================

// paperRegistry implements driven.PaperRegistry.
type paperRegistry struct {
	store *Store
}

var _ driven.PaperRegistry = (*paperRegistry)(nil)

// Put stores or replaces the paper keyed by its id.
func (r *paperRegistry) Put(ctx context.Context, paper domain.Paper) error {
	authorsJSON, err := json.Marshal(paper.Authors)
	if err != nil {
		return fmt.Errorf("marshalling authors: %w", err)
	}
	categoriesJSON, err := json.Marshal(paper.Categories)
	if err != nil {
		return fmt.Errorf("marshalling categories: %w", err)
	}

	if paper.IngestedAt.IsZero() {
		paper.IngestedAt = time.Now().UTC()
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO papers (id, title, authors, published, source_url, pdf_url, summary, categories, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			published = excluded.published,
			source_url = excluded.source_url,
			pdf_url = excluded.pdf_url,
			summary = excluded.summary,
			categories = excluded.categories,
			ingested_at = excluded.ingested_at
	`, paper.ID, paper.Title, string(authorsJSON), paper.Published,
		paper.SourceURL, paper.PDFURL, paper.Summary, string(categoriesJSON),
		paper.IngestedAt)

	if err != nil {
		return fmt.Errorf("saving paper: %w", err)
	}
	return nil
}

// Get retrieves a paper by id.
func (r *paperRegistry) Get(ctx context.Context, id string) (domain.Paper, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, title, authors, published, source_url, pdf_url, summary, categories, ingested_at
		FROM papers WHERE id = ?
	`, id)

	paper, err := scanPaper(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Paper{}, domain.ErrNotFound
		}
		return domain.Paper{}, err
	}
	return paper, nil
}

// List returns all registered papers, most recently ingested first.
func (r *paperRegistry) List(ctx context.Context) ([]domain.Paper, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, title, authors, published, source_url, pdf_url, summary, categories, ingested_at
		FROM papers ORDER BY ingested_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []domain.Paper //nolint:prealloc // size unknown from query
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, paper)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}

	return papers, nil
}

// Count returns the number of registered papers.
func (r *paperRegistry) Count(ctx context.Context) (int, error) {
	var count int
	row := r.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM papers")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return count, nil
}

// Delete removes a paper by id.
func (r *paperRegistry) Delete(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting paper: %w", err)
	}
	return nil
}

// Close releases resources. The parent Store owns the connection.
func (r *paperRegistry) Close() error {
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanPaper reads one paper row.
func scanPaper(s scanner) (domain.Paper, error) {
	var paper domain.Paper
	var authorsJSON, categoriesJSON string

	if err := s.Scan(&paper.ID, &paper.Title, &authorsJSON, &paper.Published,
		&paper.SourceURL, &paper.PDFURL, &paper.Summary, &categoriesJSON,
		&paper.IngestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Paper{}, err
		}
		return domain.Paper{}, fmt.Errorf("scanning paper: %w", err)
	}

	if err := json.Unmarshal([]byte(authorsJSON), &paper.Authors); err != nil {
		return domain.Paper{}, fmt.Errorf("unmarshalling authors: %w", err)
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &paper.Categories); err != nil {
		return domain.Paper{}, fmt.Errorf("unmarshalling categories: %w", err)
	}

	return paper, nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores a completed run.
func (r *runStore) Save(ctx context.Context, run domain.IngestRun) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, query, source, total, succeeded, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			query = excluded.query,
			source = excluded.source,
			total = excluded.total,
			succeeded = excluded.succeeded,
			failed = excluded.failed,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, run.ID, run.Query, run.Source, run.Total, run.Succeeded, run.Failed,
		run.StartedAt, run.FinishedAt)

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *runStore) Recent(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, query, source, total, succeeded, failed, started_at, finished_at
		FROM ingest_runs ORDER BY started_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IngestRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.IngestRun
		if err := rows.Scan(&run.ID, &run.Query, &run.Source, &run.Total,
			&run.Succeeded, &run.Failed, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}
