package cache

import (
	"testing"
	"time"

	"github.com/futig/support-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache(t *testing.T) {
	t.Run("Miss before set, hit after", func(t *testing.T) {
		c := NewResponseCache(time.Hour)

		_, ok := c.Get("acme", "What is your refund policy?", "v1")
		assert.False(t, ok)

		c.Set("acme", "what is your refund policy?", "v1", CachedResponse{
			Reply:  "See the refund policy page.",
			Source: entity.SourceDocument,
		}, 0)

		got, ok := c.Get("acme", "  What is your  refund policy? ", "v1")
		require.True(t, ok, "case and whitespace differences normalize to the same key")
		assert.Equal(t, "See the refund policy page.", got.Reply)
		assert.Equal(t, entity.SourceDocument, got.Source)
		assert.Equal(t, "v1", got.DocVersion)
	})

	t.Run("Normalization collapses whitespace and strips punctuation", func(t *testing.T) {
		c := NewResponseCache(time.Hour)
		c.Set("acme", "how do I reset my password?", "v1", CachedResponse{Reply: "r"}, 0)

		_, ok := c.Get("acme", "  How   do I reset my password? ", "v1")
		assert.True(t, ok)

		// '!' is stripped, '?' is preserved.
		_, ok = c.Get("acme", "how do I reset my password?!!", "v1")
		assert.True(t, ok)

		_, ok = c.Get("acme", "how do I reset my password", "v1")
		assert.False(t, ok, "queries differing in '?' are distinct")
	})

	t.Run("Version change makes prior entries unreachable", func(t *testing.T) {
		c := NewResponseCache(time.Hour)
		c.Set("acme", "query", "v1", CachedResponse{Reply: "old"}, 0)

		_, ok := c.Get("acme", "query", "v2")
		assert.False(t, ok, "re-ingestion bumps version and misses by construction")

		_, ok = c.Get("acme", "query", "v1")
		assert.True(t, ok)
	})

	t.Run("Tenants are isolated", func(t *testing.T) {
		c := NewResponseCache(time.Hour)
		c.Set("acme", "query", "v1", CachedResponse{Reply: "acme answer"}, 0)

		_, ok := c.Get("globex", "query", "v1")
		assert.False(t, ok)
	})

	t.Run("Invalidate removes a single entry", func(t *testing.T) {
		c := NewResponseCache(time.Hour)
		c.Set("acme", "query", "v1", CachedResponse{Reply: "r"}, 0)

		c.Invalidate("acme", "query", "v1")
		_, ok := c.Get("acme", "query", "v1")
		assert.False(t, ok)
	})

	t.Run("Entries expire by TTL", func(t *testing.T) {
		c := NewResponseCache(time.Hour)
		c.Set("acme", "query", "v1", CachedResponse{Reply: "r"}, time.Millisecond)

		time.Sleep(5 * time.Millisecond)
		_, ok := c.Get("acme", "query", "v1")
		assert.False(t, ok)
	})

	t.Run("Stats track aggregate hits and misses", func(t *testing.T) {
		c := NewResponseCache(time.Hour)
		c.Set("acme", "query", "v1", CachedResponse{Reply: "r"}, 0)

		c.Get("acme", "query", "v1") // hit
		c.Get("acme", "other", "v1") // miss
		c.Get("acme", "query", "v2") // miss

		stats := c.Stats()
		assert.Equal(t, int64(1), stats.Hits)
		assert.Equal(t, int64(2), stats.Misses)
		assert.Equal(t, int64(3), stats.Total)
		assert.InDelta(t, 1.0/3.0, stats.HitRate, 1e-9)
	})
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello world"},
		{"  spaced    out  ", "spaced out"},
		{"keep.dots? strip,commas!", "keep.dots? stripcommas"},
		{"MiXeD CaSe", "mixed case"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeQuery(tc.in), "input %q", tc.in)
	}
}
