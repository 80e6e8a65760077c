package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/support-backend/internal/embedding/hashing"
	"github.com/futig/support-backend/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIngestAll(t *testing.T) {
	docsDir := t.TempDir()
	tenantDir := filepath.Join(docsDir, "acme")
	require.NoError(t, os.MkdirAll(tenantDir, 0o755))

	writeDoc(t, tenantDir, "billing.txt",
		"Refunds are processed within five business days of the request.\n\n"+
			"Annual subscriptions can be cancelled from the billing page at any time.")
	writeDoc(t, tenantDir, "HumanAssistants.txt", "Name : Alice Green\nEmail : alice@example.com\n")
	writeDoc(t, tenantDir, "notes.csv", "not,a,supported,format")

	manager := vectorstore.NewManager(t.TempDir(), hashing.NewEmbedder(64), zap.NewNop())
	ing := NewIngester(docsDir, manager, NewChunker(500, 50), zap.NewNop())
	ctx := context.Background()

	t.Run("First run processes supported documents only", func(t *testing.T) {
		result, err := ing.IngestAll(ctx, "acme", false)
		require.NoError(t, err)

		assert.Equal(t, "acme", result.TenantID)
		assert.Equal(t, []string{"billing.txt"}, result.Processed)
		assert.Empty(t, result.Skipped)
		assert.Empty(t, result.Errors)
		assert.Positive(t, result.TotalChunks)

		idx, err := manager.Get("acme")
		require.NoError(t, err)
		assert.Equal(t, result.TotalChunks, idx.Count())
	})

	t.Run("Unchanged files are skipped on re-run", func(t *testing.T) {
		idx, err := manager.Get("acme")
		require.NoError(t, err)
		before := idx.Version()

		result, err := ing.IngestAll(ctx, "acme", false)
		require.NoError(t, err)

		assert.Empty(t, result.Processed)
		assert.Equal(t, []string{"billing.txt"}, result.Skipped)
		assert.Zero(t, result.TotalChunks)
		assert.Equal(t, before, idx.Version())
	})

	t.Run("Changed files are re-processed", func(t *testing.T) {
		writeDoc(t, tenantDir, "billing.txt",
			"Refunds are processed within ten business days of the request being approved.")

		result, err := ing.IngestAll(ctx, "acme", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"billing.txt"}, result.Processed)
	})

	t.Run("Force clears the index and re-ingests everything", func(t *testing.T) {
		idx, err := manager.Get("acme")
		require.NoError(t, err)
		countBefore := idx.Count()

		result, err := ing.IngestAll(ctx, "acme", true)
		require.NoError(t, err)

		assert.Equal(t, []string{"billing.txt"}, result.Processed)
		assert.Empty(t, result.Skipped)
		assert.Equal(t, result.TotalChunks, idx.Count())
		assert.LessOrEqual(t, idx.Count(), countBefore)
	})

	t.Run("Unknown tenant directory is created empty", func(t *testing.T) {
		result, err := ing.IngestAll(ctx, "newco", false)
		require.NoError(t, err)
		assert.Empty(t, result.Processed)
		assert.Zero(t, result.TotalChunks)
		assert.DirExists(t, filepath.Join(docsDir, "newco"))
	})
}
