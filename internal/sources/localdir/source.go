package localdir

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

// SourceName identifies this source.
const SourceName = "localdir"

// ingestibleExts are the file extensions the source will offer for
// ingestion.
var ingestibleExts = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// Ensure Source implements the PaperSource interface.
var _ driven.PaperSource = (*Source)(nil)

// Source serves papers from a local directory tree. File paths double
// as identifiers, so re-ingesting a directory is idempotent.
type Source struct {
	rootPath string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a local directory source rooted at rootPath.
func New(rootPath string) *Source {
	return &Source{rootPath: rootPath}
}

// Name returns the source name.
func (s *Source) Name() string {
	return SourceName
}

// Root returns the root directory being served.
func (s *Source) Root() string {
	return s.rootPath
}

// Search lists ingestible files whose name contains the query,
// case-insensitively. An empty query matches everything. Results are
// path-ordered and capped at maxResults.
func (s *Source) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	root, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	var papers []domain.Paper
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !ingestibleExts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			return nil
		}

		p, err := s.paperFromPath(root, path)
		if err != nil {
			return nil
		}
		papers = append(papers, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
	if maxResults > 0 && len(papers) > maxResults {
		papers = papers[:maxResults]
	}
	return papers, nil
}

// Lookup resolves local ids or plain paths to papers. Missing files
// are omitted from the result.
func (s *Source) Lookup(ctx context.Context, ids []string) ([]domain.Paper, error) {
	root, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	papers := make([]domain.Paper, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		path, err := resolve(root, relFromID(id))
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", id, err)
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}

		p, err := s.paperFromPath(root, path)
		if err != nil {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// Fetch opens the file behind a paper for reading.
func (s *Source) Fetch(ctx context.Context, paper domain.Paper) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	root, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, 0, fmt.Errorf("root path error: %w", err)
	}
	path, err := resolve(root, relFromID(paper.ID))
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrNotFound, paper.ID)
		}
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}

	return f, info.Size(), nil
}

// paperFromPath builds the paper record for one file.
func (s *Source) paperFromPath(root, path string) (domain.Paper, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return domain.Paper{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.Paper{}, err
	}

	return domain.Paper{
		ID:        PaperID(rel),
		Title:     titleFromFileName(filepath.Base(path)),
		Published: info.ModTime().Format("2006-01-02"),
		SourceURL: "file://" + path,
	}, nil
}

// titleFromFileName turns a file name into a display title: extension
// stripped, separators replaced with spaces.
func titleFromFileName(name string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	title = strings.NewReplacer("_", " ", "-", " ").Replace(title)
	return strings.Join(strings.Fields(title), " ")
}
