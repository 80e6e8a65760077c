package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("Empty and whitespace-only text yields no chunks", func(t *testing.T) {
		c := NewChunker(100, 20)
		assert.Nil(t, c.Split(""))
		assert.Nil(t, c.Split("   \n\t  "))
	})

	t.Run("Text within the limit stays one chunk", func(t *testing.T) {
		c := NewChunker(100, 20)
		chunks := c.Split("  a short document about refunds  ")
		require.Len(t, chunks, 1)
		assert.Equal(t, "a short document about refunds", chunks[0])
	})

	t.Run("Breaks at sentence boundaries", func(t *testing.T) {
		c := NewChunker(30, 0)
		chunks := c.Split("First sentence here. Second sentence there.")
		assert.Equal(t, []string{"First sentence here.", "Second sentence there."}, chunks)
	})

	t.Run("Breaks at paragraph boundaries first", func(t *testing.T) {
		paraA := strings.Repeat("a", 60)
		paraB := strings.Repeat("b", 60)
		c := NewChunker(80, 0)
		chunks := c.Split(paraA + "\n\n" + paraB)
		assert.Equal(t, []string{paraA, paraB}, chunks)
	})

	t.Run("Consecutive chunks share overlap characters", func(t *testing.T) {
		c := NewChunker(20, 5)
		chunks := c.Split("aaaa bbbb cccc dddd eeee ffff gggg hhhh")
		assert.Equal(t, []string{
			"aaaa bbbb cccc dddd",
			"dddd eeee ffff gggg",
			"gggg hhhh",
		}, chunks)
	})

	t.Run("Chunks never exceed the size limit", func(t *testing.T) {
		c := NewChunker(50, 10)
		text := strings.Repeat("some words in a long running document ", 20)
		for _, chunk := range c.Split(text) {
			assert.LessOrEqual(t, len([]rune(chunk)), 50)
		}
	})

	t.Run("Unbroken text falls back to hard cuts", func(t *testing.T) {
		c := NewChunker(10, 0)
		chunks := c.Split(strings.Repeat("x", 25))
		assert.Equal(t, []string{
			strings.Repeat("x", 10),
			strings.Repeat("x", 10),
			strings.Repeat("x", 5),
		}, chunks)
	})

	t.Run("Invalid configuration falls back to defaults", func(t *testing.T) {
		c := NewChunker(0, -1)
		assert.Equal(t, 500, c.size)
		assert.Zero(t, c.overlap)
	})
}
