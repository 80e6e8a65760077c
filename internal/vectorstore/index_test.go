package vectorstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/support-backend/internal/embedding/hashing"
	"github.com/futig/support-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestChunk(content, source string) entity.DocumentChunk {
	return entity.DocumentChunk{
		Content: content,
		Metadata: entity.ChunkMetadata{
			TenantID: "acme",
			Source:   source,
		},
	}
}

func TestIndexAdd(t *testing.T) {
	embedder := hashing.NewEmbedder(64)

	t.Run("Version changes on every add", func(t *testing.T) {
		idx, err := Open(t.TempDir(), "acme", embedder, zap.NewNop())
		require.NoError(t, err)

		v0 := idx.Version()
		require.NotEmpty(t, v0)

		require.NoError(t, idx.Add([]entity.DocumentChunk{newTestChunk("refund policy details", "billing.txt")}))
		v1 := idx.Version()
		assert.NotEqual(t, v0, v1)

		require.NoError(t, idx.Add([]entity.DocumentChunk{newTestChunk("password reset steps", "guide.txt")}))
		assert.NotEqual(t, v1, idx.Version())
		assert.Equal(t, 2, idx.Count())
	})

	t.Run("Adding nothing keeps the version", func(t *testing.T) {
		idx, err := Open(t.TempDir(), "acme", embedder, zap.NewNop())
		require.NoError(t, err)

		v0 := idx.Version()
		require.NoError(t, idx.Add(nil))
		assert.Equal(t, v0, idx.Version())
		assert.Zero(t, idx.Count())
	})
}

func TestIndexSearch(t *testing.T) {
	embedder := hashing.NewEmbedder(64)

	idx, err := Open(t.TempDir(), "acme", embedder, zap.NewNop())
	require.NoError(t, err)

	chunks := []entity.DocumentChunk{
		newTestChunk("refunds are processed within five business days", "billing.txt"),
		newTestChunk("reset your password from the account settings page", "guide.txt"),
	}
	require.NoError(t, idx.Add(chunks))

	t.Run("Exact text ranks its own chunk first", func(t *testing.T) {
		results := idx.Search("refunds are processed within five business days", 10, -1)
		require.Len(t, results, 2)
		assert.Equal(t, chunks[0].Content, results[0].Chunk.Content)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("MinScore filters weak matches", func(t *testing.T) {
		results := idx.Search("refunds are processed within five business days", 10, 0.9)
		require.Len(t, results, 1)
		assert.Equal(t, chunks[0].Content, results[0].Chunk.Content)
	})

	t.Run("TopK bounds the result set", func(t *testing.T) {
		results := idx.Search("refunds password", 1, -1)
		assert.Len(t, results, 1)
	})

	t.Run("Empty index returns nothing", func(t *testing.T) {
		empty, err := Open(t.TempDir(), "acme", embedder, zap.NewNop())
		require.NoError(t, err)
		assert.Empty(t, empty.Search("anything", 10, -1))
	})
}

func TestIndexPersistence(t *testing.T) {
	embedder := hashing.NewEmbedder(64)

	t.Run("Reopen restores chunks and version", func(t *testing.T) {
		dir := t.TempDir()

		idx, err := Open(dir, "acme", embedder, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, idx.Add([]entity.DocumentChunk{
			newTestChunk("refunds are processed within five business days", "billing.txt"),
			newTestChunk("reset your password from the account settings page", "guide.txt"),
		}))
		version := idx.Version()
		results := idx.Search("refund", 10, -1)

		reopened, err := Open(dir, "acme", embedder, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, version, reopened.Version())
		assert.Equal(t, 2, reopened.Count())
		assert.Equal(t, results, reopened.Search("refund", 10, -1))
	})

	t.Run("Corrupt marker starts empty without error", func(t *testing.T) {
		dir := t.TempDir()

		idx, err := Open(dir, "acme", embedder, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, idx.Add([]entity.DocumentChunk{newTestChunk("some content here", "doc.txt")}))
		oldVersion := idx.Version()

		marker := filepath.Join(dir, "acme", currentMarker)
		require.NoError(t, os.WriteFile(marker, []byte("gen-missing"), 0o644))

		recovered, err := Open(dir, "acme", embedder, zap.NewNop())
		require.NoError(t, err)
		assert.Zero(t, recovered.Count())
		assert.NotEqual(t, oldVersion, recovered.Version())
	})

	t.Run("Dimension mismatch starts empty without error", func(t *testing.T) {
		dir := t.TempDir()

		idx, err := Open(dir, "acme", embedder, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, idx.Add([]entity.DocumentChunk{newTestChunk("some content here", "doc.txt")}))

		wider, err := Open(dir, "acme", hashing.NewEmbedder(128), zap.NewNop())
		require.NoError(t, err)
		assert.Zero(t, wider.Count())
	})
}

func TestIndexClear(t *testing.T) {
	embedder := hashing.NewEmbedder(64)

	idx, err := Open(t.TempDir(), "acme", embedder, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, idx.Add([]entity.DocumentChunk{newTestChunk("some content here", "doc.txt")}))

	before := idx.Version()
	require.NoError(t, idx.Clear())

	assert.Zero(t, idx.Count())
	assert.NotEqual(t, before, idx.Version())
	assert.Empty(t, idx.Search("content", 10, -1))
}
