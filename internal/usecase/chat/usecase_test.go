package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/futig/support-backend/internal/cache"
	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/pkg/metrics"
	"github.com/futig/support-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	result entity.IntentResult
	panics bool
}

func (f *fakeClassifier) Classify(string) entity.IntentResult {
	if f.panics {
		panic("classifier exploded")
	}
	return f.result
}

type fakeRetriever struct {
	resp       entity.RetrievalResponse
	err        error
	version    string
	versionErr error
	calls      int
}

func (f *fakeRetriever) Retrieve(string, string, int, float64) (entity.RetrievalResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeRetriever) Version(string) (string, error) {
	return f.version, f.versionErr
}

type fakeRouter struct {
	result entity.EscalationResult
	calls  int
}

func (f *fakeRouter) Route(context.Context, string, string, string, entity.IntentResult) entity.EscalationResult {
	f.calls++
	return f.result
}

type fakeGenerator struct {
	groundedReply string
	groundedErr   error
	generalReply  string
	generalErr    error
	modes         []entity.GenerationMode
}

func (f *fakeGenerator) Generate(_ context.Context, req *entity.GenerationRequest) (string, error) {
	f.modes = append(f.modes, req.Mode)
	if req.Mode == entity.ModeGrounded {
		return f.groundedReply, f.groundedErr
	}
	return f.generalReply, f.generalErr
}

type fakeCache struct {
	entries map[string]cache.CachedResponse
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]cache.CachedResponse)}
}

func (f *fakeCache) key(tenantID, query, version string) string {
	return tenantID + "|" + query + "|" + version
}

func (f *fakeCache) Get(tenantID, query, version string) (cache.CachedResponse, bool) {
	resp, ok := f.entries[f.key(tenantID, query, version)]
	return resp, ok
}

func (f *fakeCache) Set(tenantID, query, version string, resp cache.CachedResponse, _ time.Duration) {
	f.sets++
	f.entries[f.key(tenantID, query, version)] = resp
}

type pipeline struct {
	uc         *ChatUsecase
	classifier *fakeClassifier
	retriever  *fakeRetriever
	router     *fakeRouter
	generator  *fakeGenerator
	cache      *fakeCache
	metrics    *metrics.Collector
}

func newPipeline() *pipeline {
	p := &pipeline{
		classifier: &fakeClassifier{result: entity.IntentResult{
			Intent:     entity.IntentGeneralQuestion,
			Confidence: 0.3,
			Severity:   entity.SeverityLow,
		}},
		retriever: &fakeRetriever{version: "v1"},
		router:    &fakeRouter{},
		generator: &fakeGenerator{groundedReply: "grounded answer", generalReply: "general answer"},
		cache:     newFakeCache(),
		metrics:   metrics.NewCollector(),
	}
	p.uc = NewUsecase(
		p.classifier, p.retriever, p.router, p.generator, p.cache,
		validator.NewValidator(500), p.metrics,
		Config{
			RetrievalTopK:      5,
			RetrievalMinScore:  0.25,
			RelevanceThreshold: 0.3,
			CacheTTL:           time.Minute,
			GenerateTimeout:    time.Second,
		},
		zap.NewNop(),
	)
	return p
}

func chatReq() *entity.ChatRequest {
	return &entity.ChatRequest{TenantID: "acme", UserID: "user-1", Message: "How do refunds work?"}
}

func relevantRetrieval() entity.RetrievalResponse {
	return entity.RetrievalResponse{
		Context:    "refunds are processed within five business days",
		Confidence: 0.8,
		IsRelevant: true,
		Sources:    []string{"billing.txt"},
	}
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Validation errors are returned to the caller", func(t *testing.T) {
		p := newPipeline()
		resp, err := p.uc.Handle(ctx, &entity.ChatRequest{UserID: "user-1", Message: "hi"})
		require.ErrorIs(t, err, entity.ErrMissingTenantID)
		assert.Nil(t, resp)
		assert.Zero(t, p.metrics.Snapshot()[metrics.RequestsTotal])
	})

	t.Run("Relevant documents produce a grounded answer", func(t *testing.T) {
		p := newPipeline()
		p.retriever.resp = relevantRetrieval()

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.Equal(t, "grounded answer", resp.Reply)
		assert.Equal(t, entity.SourceDocument, resp.Source)
		assert.False(t, resp.Escalated)
		assert.Equal(t, []entity.GenerationMode{entity.ModeGrounded}, p.generator.modes)
	})

	t.Run("Irrelevant documents fall back to general generation", func(t *testing.T) {
		p := newPipeline()
		p.retriever.resp = entity.RetrievalResponse{Confidence: 0.1, IsRelevant: false}

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.Equal(t, "general answer", resp.Reply)
		assert.Equal(t, entity.SourceLLM, resp.Source)
		assert.Equal(t, []entity.GenerationMode{entity.ModeGeneral}, p.generator.modes)
	})

	t.Run("Confidence below the threshold is not relevant", func(t *testing.T) {
		p := newPipeline()
		retrieved := relevantRetrieval()
		retrieved.Confidence = 0.29
		p.retriever.resp = retrieved

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)
		assert.Equal(t, entity.SourceLLM, resp.Source)
		assert.Equal(t, []entity.GenerationMode{entity.ModeGeneral}, p.generator.modes)
	})

	t.Run("High-risk intents never get ungrounded generation", func(t *testing.T) {
		p := newPipeline()
		p.classifier.result = entity.IntentResult{
			Intent:     entity.IntentAccountDeletion,
			Confidence: 0.5,
			IsHighRisk: true,
			Severity:   entity.SeverityHigh,
		}

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.Equal(t, noDocsReply, resp.Reply)
		assert.Equal(t, entity.SourceDocument, resp.Source)
		assert.Empty(t, p.generator.modes)
		assert.Equal(t, int64(1), p.metrics.Snapshot()[metrics.RetrievalFailures])
	})

	t.Run("Grounded failure degrades to general generation", func(t *testing.T) {
		p := newPipeline()
		p.retriever.resp = relevantRetrieval()
		p.generator.groundedErr = errors.New("provider down")

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.Equal(t, "general answer", resp.Reply)
		assert.Equal(t, entity.SourceLLM, resp.Source)
		assert.Equal(t, []entity.GenerationMode{entity.ModeGrounded, entity.ModeGeneral}, p.generator.modes)
		assert.Equal(t, int64(1), p.metrics.Snapshot()[metrics.GenerationErrors])
	})

	t.Run("All generation failing yields the static fallback", func(t *testing.T) {
		p := newPipeline()
		p.retriever.resp = relevantRetrieval()
		p.generator.groundedErr = errors.New("provider down")
		p.generator.generalErr = errors.New("provider down")

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)
		assert.Equal(t, noDocsReply, resp.Reply)
		assert.Equal(t, entity.SourceDocument, resp.Source)
	})

	t.Run("Retrieval failure degrades instead of erroring", func(t *testing.T) {
		p := newPipeline()
		p.retriever.err = errors.New("index unavailable")

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)
		assert.Equal(t, "general answer", resp.Reply)
		assert.Equal(t, int64(1), p.metrics.Snapshot()[metrics.RetrievalFailures])
	})
}

func TestHandleEscalation(t *testing.T) {
	ctx := context.Background()

	t.Run("Escalation with an assigned agent", func(t *testing.T) {
		p := newPipeline()
		p.router.result = entity.EscalationResult{
			ShouldEscalate: true,
			Reason:         "human_request",
			TicketID:       "TKT-20260831-ABC123",
			AssignedAgent: &entity.HumanAgent{
				AgentID:         "agent_001",
				Name:            "Alice Green",
				Email:           "alice@example.com",
				Specializations: []string{"billing"},
			},
		}

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.True(t, resp.Escalated)
		assert.Equal(t, entity.SourceHuman, resp.Source)
		assert.Equal(t, "TKT-20260831-ABC123", resp.TicketID)
		assert.Contains(t, resp.Reply, "Ticket ID: TKT-20260831-ABC123")
		assert.Contains(t, resp.Reply, "Agent: Alice Green")
		require.NotNil(t, resp.AssignedAgent)
		assert.Equal(t, "agent_001", resp.AssignedAgent.AgentID)

		assert.Empty(t, p.generator.modes)
		assert.Zero(t, p.cache.sets)
		assert.Equal(t, int64(1), p.metrics.Snapshot()[metrics.Escalations])
	})

	t.Run("Escalation without an available agent", func(t *testing.T) {
		p := newPipeline()
		p.router.result = entity.EscalationResult{
			ShouldEscalate: true,
			Reason:         "high_risk_action:account_deletion",
			TicketID:       "TKT-20260831-DEF456",
		}

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.True(t, resp.Escalated)
		assert.Nil(t, resp.AssignedAgent)
		assert.Contains(t, resp.Reply, "requires assistance from our support team")
		assert.Contains(t, resp.Reply, "Ticket ID: TKT-20260831-DEF456")
	})
}

func TestHandleCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("Generated replies are cached under the index version", func(t *testing.T) {
		p := newPipeline()
		p.retriever.resp = relevantRetrieval()

		_, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)
		require.Equal(t, 1, p.cache.sets)

		cached, ok := p.cache.Get("acme", chatReq().Message, "v1")
		require.True(t, ok)
		assert.Equal(t, "grounded answer", cached.Reply)
		assert.Equal(t, entity.SourceDocument, cached.Source)
		assert.Equal(t, "v1", cached.DocVersion)
	})

	t.Run("Cache hit skips retrieval and generation", func(t *testing.T) {
		p := newPipeline()
		p.cache.Set("acme", chatReq().Message, "v1", cache.CachedResponse{
			Reply:      "cached answer",
			Source:     entity.SourceDocument,
			DocVersion: "v1",
		}, time.Minute)
		p.cache.sets = 0

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)

		assert.Equal(t, "cached answer", resp.Reply)
		assert.Equal(t, entity.SourceDocument, resp.Source)
		assert.False(t, resp.Escalated)
		assert.Zero(t, p.retriever.calls)
		assert.Zero(t, p.router.calls)
		assert.Empty(t, p.generator.modes)
	})

	t.Run("Unknown index version bypasses the cache", func(t *testing.T) {
		p := newPipeline()
		p.retriever.versionErr = errors.New("index unavailable")
		p.retriever.resp = relevantRetrieval()

		resp, err := p.uc.Handle(ctx, chatReq())
		require.NoError(t, err)
		assert.Equal(t, "grounded answer", resp.Reply)
		assert.Zero(t, p.cache.sets)
	})
}

func TestHandleRecovery(t *testing.T) {
	t.Run("Panics degrade to the system error reply", func(t *testing.T) {
		p := newPipeline()
		p.classifier.panics = true

		resp, err := p.uc.Handle(context.Background(), chatReq())
		require.NoError(t, err)

		assert.Equal(t, systemErrorReply, resp.Reply)
		assert.False(t, resp.Escalated)
		assert.Equal(t, entity.IntentGeneralQuestion, resp.Intent)
		assert.Equal(t, entity.SourceDocument, resp.Source)
		assert.Equal(t, int64(1), p.metrics.Snapshot()[metrics.RecoveredPanics])
	})
}
