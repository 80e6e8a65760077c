package embedding

// Embedder converts free text into a fixed-length numeric vector.
// Implementations must be deterministic: identical text yields an
// identical vector, so persisted indexes stay searchable across restarts.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) []float64
	EmbedBatch(texts []string) [][]float64
}
