package hashing

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const DefaultDimension = 256

// Embedder is a deterministic feature-hashing term-frequency vectorizer.
// Tokens are hashed into a fixed number of buckets with a sign derived from
// the hash, then the vector is L2-normalized so that inner product equals
// cosine similarity. Unlike a corpus-fitted vocabulary, the dimension is
// fixed up front, which keeps persisted per-tenant indexes valid across
// ingestions.
type Embedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{
		dimension:    dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hashing-tf" }

// Dimension returns the dimensionality of produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the normalized hashed term-frequency vector for the text.
// Empty or all-stopword text yields the zero vector.
func (e *Embedder) Embed(text string) []float64 {
	vec := make([]float64, e.dimension)
	tokens := e.tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		bucket, sign := e.hashToken(tok)
		vec[bucket] += sign
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// EmbedBatch embeds each text independently.
func (e *Embedder) EmbedBatch(texts []string) [][]float64 {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = e.Embed(t)
	}
	return out
}

// hashToken maps a token to a bucket index and a +1/-1 sign. The sign bit
// reduces collision bias the way signed hashing vectorizers do.
func (e *Embedder) hashToken(tok string) (int, float64) {
	h := fnv.New64a()
	h.Write([]byte(tok))
	sum := h.Sum64()

	bucket := int(sum % uint64(e.dimension))
	sign := 1.0
	if (sum>>63)&1 == 1 {
		sign = -1.0
	}
	return bucket, sign
}

func (e *Embedder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about",
		"between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
