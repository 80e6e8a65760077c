package retriever

import (
	"fmt"
	"strings"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/vectorstore"
)

const (
	// DefaultTopK casts a wider net than the raw index default; the
	// relevance gate filters the extra recall afterwards. The score floor
	// always comes from the caller (config carries its default).
	DefaultTopK = 5

	contextSeparator = "\n\n---\n\n"
)

// Retriever wraps per-tenant index search with aggregate confidence scoring
// and a relevance gate.
type Retriever struct {
	manager *vectorstore.Manager
}

func NewRetriever(manager *vectorstore.Manager) *Retriever {
	return &Retriever{manager: manager}
}

// Retrieve searches the tenant's index and aggregates the matches.
//
// Confidence is the arithmetic mean of returned scores. Relevance requires
// both the mean and the single best score to clear minScore, so a handful of
// weak matches cannot ride on one strong one. An empty index short-circuits
// to a zero-confidence, not-relevant response without searching.
func (r *Retriever) Retrieve(tenantID, query string, topK int, minScore float64) (entity.RetrievalResponse, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	idx, err := r.manager.Get(tenantID)
	if err != nil {
		return entity.RetrievalResponse{}, fmt.Errorf("get tenant index: %w", err)
	}

	if idx.Count() == 0 {
		return emptyResponse(), nil
	}

	results := idx.Search(query, topK, minScore)
	if len(results) == 0 {
		return emptyResponse(), nil
	}

	chunks := make([]entity.RetrievalResult, 0, len(results))
	contextParts := make([]string, 0, len(results))
	total := 0.0
	seen := make(map[string]struct{})
	var sources []string

	for _, res := range results {
		chunks = append(chunks, entity.RetrievalResult{
			Content:  res.Chunk.Content,
			Score:    res.Score,
			Metadata: res.Chunk.Metadata,
		})
		contextParts = append(contextParts, res.Chunk.Content)
		total += res.Score

		if src := res.Chunk.Metadata.Source; src != "" {
			if _, ok := seen[src]; !ok {
				seen[src] = struct{}{}
				sources = append(sources, src)
			}
		}
	}

	confidence := total / float64(len(results))
	isRelevant := confidence >= minScore && results[0].Score >= minScore

	return entity.RetrievalResponse{
		Context:    strings.Join(contextParts, contextSeparator),
		Confidence: confidence,
		Sources:    sources,
		IsRelevant: isRelevant,
		Chunks:     chunks,
	}, nil
}

// Version returns the tenant's current index version for cache keying
func (r *Retriever) Version(tenantID string) (string, error) {
	idx, err := r.manager.Get(tenantID)
	if err != nil {
		return "", fmt.Errorf("get tenant index: %w", err)
	}
	return idx.Version(), nil
}

func emptyResponse() entity.RetrievalResponse {
	return entity.RetrievalResponse{
		Context:    "",
		Confidence: 0.0,
		Sources:    nil,
		IsRelevant: false,
		Chunks:     nil,
	}
}
