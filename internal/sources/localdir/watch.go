package localdir

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// DebounceDelay is how long a file must stay quiet after its last
// write before it is emitted. Copies into the watched directory
// arrive as bursts of write events.
const DebounceDelay = 500 * time.Millisecond

// Watch emits a paper for each ingestible file created or modified
// under the root, debounced per path. New subdirectories are picked up
// as they appear; removals are not mirrored. The channel closes when
// the context is cancelled or the source is closed.
func (s *Source) Watch(ctx context.Context) (<-chan domain.Paper, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("source is closed")
	}
	s.mu.Unlock()

	root, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	out := make(chan domain.Paper)
	go s.watchLoop(ctx, root, watcher, out)
	return out, nil
}

// Close stops any active watcher. It is idempotent, and Search,
// Lookup and Fetch keep working afterwards.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.watcher != nil {
		err := s.watcher.Close()
		s.watcher = nil
		return err
	}
	return nil
}

func (s *Source) watchLoop(ctx context.Context, root string, watcher *fsnotify.Watcher, out chan<- domain.Paper) {
	defer close(out)

	done := make(chan struct{})
	defer close(done)

	ready := make(chan string)
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[path]; ok {
			t.Reset(DebounceDelay)
			return
		}
		pending[path] = time.AfterFunc(DebounceDelay, func() {
			select {
			case ready <- path:
			case <-done:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return

		case path := <-ready:
			mu.Lock()
			delete(pending, path)
			mu.Unlock()

			p, err := s.paperFromPath(root, path)
			if err != nil {
				continue
			}
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			handleEvent(watcher, ev, schedule)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleEvent schedules ingestible file writes and starts watching
// newly created subdirectories.
func handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, schedule func(string)) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			watcher.Add(ev.Name)
		}
		return
	}

	if !ingestibleExts[strings.ToLower(filepath.Ext(name))] {
		return
	}
	schedule(ev.Name)
}
