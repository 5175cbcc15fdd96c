package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
	"github.com/scirag-labs/scirag-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.Equal(t, "plaintext", e.Name())

	var _ driven.TextExtractor = e
}

func TestExtractor_Extract(t *testing.T) {
	e := New()
	ctx := context.Background()

	t.Run("passes clean text through", func(t *testing.T) {
		text, err := e.Extract(ctx, []byte("hello research world"), 0)
		require.NoError(t, err)
		assert.Equal(t, "hello research world", text)
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := e.Extract(ctx, nil, 0)
		assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	})

	t.Run("whitespace-only input fails", func(t *testing.T) {
		_, err := e.Extract(ctx, []byte("   \n\t  "), 0)
		assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		text, err := e.Extract(ctx, []byte("\ufeffcontent"), 0)
		require.NoError(t, err)
		assert.Equal(t, "content", text)
	})

	t.Run("drops invalid utf-8 sequences", func(t *testing.T) {
		text, err := e.Extract(ctx, []byte{'o', 'k', 0xff, 0xfe, '!', 0x00}, 0)
		require.NoError(t, err)
		assert.Equal(t, "ok!", text)
	})

	t.Run("normalises windows line endings", func(t *testing.T) {
		text, err := e.Extract(ctx, []byte("line one\r\nline two"), 0)
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", text)
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := e.Extract(cancelled, []byte("text"), 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("page cap is ignored", func(t *testing.T) {
		text, err := e.Extract(ctx, []byte("short"), 1)
		require.NoError(t, err)
		assert.Equal(t, "short", text)
	})
}
