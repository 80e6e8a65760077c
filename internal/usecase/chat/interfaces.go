package chat

import (
	"context"
	"time"

	"github.com/futig/support-backend/internal/cache"
	"github.com/futig/support-backend/internal/entity"
)

type IntentClassifier interface {
	Classify(message string) entity.IntentResult
}

type Retriever interface {
	Retrieve(tenantID, query string, topK int, minScore float64) (entity.RetrievalResponse, error)
	Version(tenantID string) (string, error)
}

type EscalationRouter interface {
	Route(ctx context.Context, tenantID, userID, message string, result entity.IntentResult) entity.EscalationResult
}

type Generator interface {
	Generate(ctx context.Context, req *entity.GenerationRequest) (string, error)
}

type ResponseCache interface {
	Get(tenantID, query, version string) (cache.CachedResponse, bool)
	Set(tenantID, query, version string, resp cache.CachedResponse, ttl time.Duration)
}
