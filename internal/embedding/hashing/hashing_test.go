package hashing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func TestEmbed(t *testing.T) {
	e := NewEmbedder(DefaultDimension)

	t.Run("Vectors are deterministic", func(t *testing.T) {
		first := e.Embed("refund policy for annual subscriptions")
		second := e.Embed("refund policy for annual subscriptions")
		assert.Equal(t, first, second)
	})

	t.Run("Vectors have the configured dimension", func(t *testing.T) {
		vec := e.Embed("some text")
		assert.Len(t, vec, DefaultDimension)

		small := NewEmbedder(32)
		assert.Len(t, small.Embed("some text"), 32)
	})

	t.Run("Non-empty text yields a unit vector", func(t *testing.T) {
		vec := e.Embed("password reset instructions")
		norm := math.Sqrt(dot(vec, vec))
		assert.InDelta(t, 1.0, norm, 1e-9)
	})

	t.Run("Stopword-only text yields the zero vector", func(t *testing.T) {
		vec := e.Embed("the and of to")
		for _, v := range vec {
			require.Zero(t, v)
		}
	})

	t.Run("Identical text scores above unrelated text", func(t *testing.T) {
		doc := e.Embed("refund policy takes five business days")
		same := e.Embed("refund policy takes five business days")
		other := e.Embed("kubernetes cluster autoscaling configuration")

		assert.InDelta(t, 1.0, dot(doc, same), 1e-9)
		assert.Greater(t, dot(doc, same), dot(doc, other))
	})

	t.Run("Case differences do not change the vector", func(t *testing.T) {
		assert.Equal(t, e.Embed("Refund Policy"), e.Embed("refund policy"))
	})

	t.Run("Batch embeds each text independently", func(t *testing.T) {
		texts := []string{"first document", "second document"}
		batch := e.EmbedBatch(texts)
		require.Len(t, batch, 2)
		assert.Equal(t, e.Embed(texts[0]), batch[0])
		assert.Equal(t, e.Embed(texts[1]), batch[1])
	})

	t.Run("Invalid dimension falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultDimension, NewEmbedder(0).Dimension())
		assert.Equal(t, DefaultDimension, NewEmbedder(-5).Dimension())
	})
}
