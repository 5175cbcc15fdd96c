package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPaper_DisplayAuthors tests author truncation for display
func TestPaper_DisplayAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"no authors", nil, ""},
		{"one author", []string{"Ada Lovelace"}, "Ada Lovelace"},
		{"two authors", []string{"A. One", "B. Two"}, "A. One, B. Two"},
		{"three authors", []string{"A", "B", "C"}, "A, B, C"},
		{"four authors truncated", []string{"A", "B", "C", "D"}, "A, B, C"},
		{"many authors truncated", []string{"A", "B", "C", "D", "E", "F"}, "A, B, C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paper{Authors: tt.authors}
			assert.Equal(t, tt.want, p.DisplayAuthors())
		})
	}
}

// TestPaper_ChunkID tests deterministic chunk id derivation
func TestPaper_ChunkID(t *testing.T) {
	p := Paper{ID: "2301.00001"}

	assert.Equal(t, "2301.00001_chunk_0", p.ChunkID(0))
	assert.Equal(t, "2301.00001_chunk_7", p.ChunkID(7))

	// Same inputs, same ids, every time
	assert.Equal(t, p.ChunkID(3), p.ChunkID(3))
}

// TestPaper_CacheFileName tests artifact name sanitisation
func TestPaper_CacheFileName(t *testing.T) {
	t.Run("keeps safe characters", func(t *testing.T) {
		p := Paper{ID: "x1", Title: "Attention Is All You Need"}
		name := p.CacheFileName()
		assert.True(t, strings.HasPrefix(name, "Attention Is All You Need_"))
		assert.True(t, strings.HasSuffix(name, ".pdf"))
	})

	t.Run("strips path traversal", func(t *testing.T) {
		p := Paper{ID: "x2", Title: "../../etc/passwd"}
		name := p.CacheFileName()
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, "..")
	})

	t.Run("strips punctuation", func(t *testing.T) {
		p := Paper{ID: "x3", Title: "Graphs: A Survey (2023)!"}
		name := p.CacheFileName()
		assert.NotContains(t, name, ":")
		assert.NotContains(t, name, "(")
		assert.NotContains(t, name, "!")
	})

	t.Run("caps title length", func(t *testing.T) {
		p := Paper{ID: "x4", Title: strings.Repeat("a", 500)}
		name := p.CacheFileName()
		// 100 title chars + "_" + 8 hex chars + ".pdf"
		assert.LessOrEqual(t, len(name), 113)
	})

	t.Run("empty title falls back", func(t *testing.T) {
		p := Paper{ID: "x5", Title: "{}[]"}
		name := p.CacheFileName()
		assert.True(t, strings.HasPrefix(name, "paper_"))
	})

	t.Run("colliding titles stay distinct", func(t *testing.T) {
		a := Paper{ID: "id-a", Title: "Same Title"}
		b := Paper{ID: "id-b", Title: "Same Title"}
		assert.NotEqual(t, a.CacheFileName(), b.CacheFileName())
	})
}

// TestNewChunkMetadata tests metadata assembly
func TestNewChunkMetadata(t *testing.T) {
	p := Paper{
		ID:      "2301.00001",
		Title:   "A Study",
		Authors: []string{"A", "B", "C", "D"},
	}

	meta := NewChunkMetadata(p, 2)

	assert.Equal(t, "2301.00001", meta.PaperID)
	assert.Equal(t, "A Study", meta.Title)
	assert.Equal(t, 2, meta.ChunkIndex)
	assert.Equal(t, "A, B, C", meta.Authors)
}
