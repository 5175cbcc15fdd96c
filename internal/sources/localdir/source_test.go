package localdir

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	t.Run("creates source with root path", func(t *testing.T) {
		s := New("/tmp/papers")
		require.NotNil(t, s)
		assert.Equal(t, "/tmp/papers", s.Root())
	})

	t.Run("implements PaperSource", func(t *testing.T) {
		var _ driven.PaperSource = New("/tmp")
	})
}

func TestSource_Name(t *testing.T) {
	assert.Equal(t, "localdir", New("/tmp").Name())
}

func TestSource_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("lists only ingestible files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "one.pdf", "pdf bytes")
		writeFile(t, dir, "two.txt", "text")
		writeFile(t, dir, "three.md", "markdown")
		writeFile(t, dir, "binary.exe", "nope")
		writeFile(t, dir, ".hidden.pdf", "hidden")
		writeFile(t, dir, filepath.Join(".git", "buried.pdf"), "hidden dir")

		papers, err := New(dir).Search(ctx, "", 0)

		require.NoError(t, err)
		require.Len(t, papers, 3)
		assert.Equal(t, "local:one.pdf", papers[0].ID)
		assert.Equal(t, "local:three.md", papers[1].ID)
		assert.Equal(t, "local:two.txt", papers[2].ID)
	})

	t.Run("includes files in subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, filepath.Join("nested", "deep", "paper.pdf"), "pdf")

		papers, err := New(dir).Search(ctx, "", 0)

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "local:nested/deep/paper.pdf", papers[0].ID)
		assert.Equal(t, "paper", papers[0].Title)
	})

	t.Run("filters by file name substring", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "attention_transformers.pdf", "a")
		writeFile(t, dir, "diffusion_models.pdf", "b")

		papers, err := New(dir).Search(ctx, "ATTENTION", 0)

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "local:attention_transformers.pdf", papers[0].ID)
	})

	t.Run("caps results at maxResults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.pdf", "1")
		writeFile(t, dir, "b.pdf", "2")
		writeFile(t, dir, "c.pdf", "3")

		papers, err := New(dir).Search(ctx, "", 2)

		require.NoError(t, err)
		assert.Len(t, papers, 2)
	})

	t.Run("missing root fails", func(t *testing.T) {
		_, err := New("/definitely/not/here").Search(ctx, "", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")
	})
}

func TestSource_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves local ids", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "paper.pdf", "content")

		papers, err := New(dir).Lookup(ctx, []string{"local:paper.pdf"})

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "local:paper.pdf", papers[0].ID)
	})

	t.Run("resolves bare relative paths", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, filepath.Join("sub", "x.txt"), "content")

		papers, err := New(dir).Lookup(ctx, []string{"sub/x.txt"})

		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, "local:sub/x.txt", papers[0].ID)
	})

	t.Run("omits missing files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "real.pdf", "content")

		papers, err := New(dir).Lookup(ctx, []string{"real.pdf", "ghost.pdf"})

		require.NoError(t, err)
		assert.Len(t, papers, 1)
	})

	t.Run("rejects traversal outside the root", func(t *testing.T) {
		dir := t.TempDir()

		_, err := New(dir).Lookup(ctx, []string{"../outside.pdf"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the root")
	})
}

func TestSource_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("streams file content with declared size", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "paper.txt", "hello papers")
		s := New(dir)

		papers, err := s.Lookup(ctx, []string{"paper.txt"})
		require.NoError(t, err)
		require.Len(t, papers, 1)

		r, size, err := s.Fetch(ctx, papers[0])
		require.NoError(t, err)
		defer r.Close()

		assert.Equal(t, int64(len("hello papers")), size)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "hello papers", string(data))
	})

	t.Run("missing file yields not found", func(t *testing.T) {
		s := New(t.TempDir())

		_, _, err := s.Fetch(ctx, domain.Paper{ID: "local:gone.pdf"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
