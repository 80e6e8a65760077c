package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/support-backend/internal/cache"
	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/pkg/metrics"
	"github.com/futig/support-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	noDocsReply = "I couldn't find information about this in our documentation. " +
		"Please rephrase your question or contact support for assistance."
	systemErrorReply = "I apologize, but I encountered an error. Please try again."
)

// Config holds the pipeline tuning parameters
type Config struct {
	RetrievalTopK      int
	RetrievalMinScore  float64
	RelevanceThreshold float64
	CacheTTL           time.Duration
	GenerateTimeout    time.Duration
}

// ChatUsecase runs the support pipeline: classification, retrieval, relevance
// scoring, escalation and answer generation, with version-keyed response
// caching on the non-escalated path.
type ChatUsecase struct {
	classifier IntentClassifier
	retriever  Retriever
	router     EscalationRouter
	generator  Generator
	cache      ResponseCache
	validator  *validator.Validator
	metrics    *metrics.Collector
	cfg        Config
	logger     *zap.Logger
}

func NewUsecase(
	classifier IntentClassifier,
	retriever Retriever,
	router EscalationRouter,
	generator Generator,
	respCache ResponseCache,
	validator *validator.Validator,
	collector *metrics.Collector,
	cfg Config,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		classifier: classifier,
		retriever:  retriever,
		router:     router,
		generator:  generator,
		cache:      respCache,
		validator:  validator,
		metrics:    collector,
		cfg:        cfg,
		logger:     logger,
	}
}

// Handle processes a single chat message. Validation errors are the only ones
// returned to the caller; every internal failure degrades to a valid terminal
// reply instead.
func (uc *ChatUsecase) Handle(ctx context.Context, req *entity.ChatRequest) (resp *entity.ChatResponse, err error) {
	if verr := uc.validator.ValidateChat(req); verr != nil {
		return nil, verr
	}

	uc.metrics.Increment(metrics.RequestsTotal)

	defer func() {
		if r := recover(); r != nil {
			uc.metrics.Increment(metrics.RecoveredPanics)
			ctxzap.Error(ctx, "recovered from panic in chat pipeline", zap.Any("panic", r))
			resp = &entity.ChatResponse{
				Reply:      systemErrorReply,
				Escalated:  false,
				Intent:     entity.IntentGeneralQuestion,
				Confidence: 0,
				Source:     entity.SourceDocument,
			}
			err = nil
		}
	}()

	result := uc.classifier.Classify(req.Message)
	ctxzap.Info(ctx, "intent classified",
		zap.String("intent", string(result.Intent)),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("high_risk", result.IsHighRisk),
	)

	version := uc.indexVersion(ctx, req.TenantID)
	if version != "" {
		if cached, ok := uc.cache.Get(req.TenantID, req.Message, version); ok {
			ctxzap.Info(ctx, "serving cached response", zap.String("version", version))
			return &entity.ChatResponse{
				Reply:      cached.Reply,
				Escalated:  false,
				Intent:     result.Intent,
				Confidence: result.Confidence,
				Source:     cached.Source,
			}, nil
		}
	}

	retrieved := uc.retrieve(ctx, req.TenantID, req.Message)

	// Retrieval over-fetches, so relevance is re-checked against a stricter
	// bar before it may gate generation.
	relevant := retrieved.IsRelevant &&
		retrieved.Confidence >= uc.cfg.RelevanceThreshold &&
		strings.TrimSpace(retrieved.Context) != ""

	escalation := uc.router.Route(ctx, req.TenantID, req.UserID, req.Message, result)
	if escalation.ShouldEscalate {
		uc.metrics.Increment(metrics.Escalations)
		return uc.escalatedResponse(result, escalation), nil
	}

	reply, source := uc.generateAnswer(ctx, req.Message, retrieved, relevant, result)

	if version != "" {
		uc.cache.Set(req.TenantID, req.Message, version, cache.CachedResponse{
			Reply:      reply,
			Source:     source,
			DocVersion: version,
			CachedAt:   time.Now().UTC(),
		}, uc.cfg.CacheTTL)
	}

	return &entity.ChatResponse{
		Reply:      reply,
		Escalated:  false,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Source:     source,
	}, nil
}

// generateAnswer walks the strict priority chain: grounded generation when
// relevant documents exist, general generation for non-high-risk intents,
// then the static fallback.
func (uc *ChatUsecase) generateAnswer(
	ctx context.Context,
	query string,
	retrieved entity.RetrievalResponse,
	relevant bool,
	result entity.IntentResult,
) (string, entity.ResponseSource) {
	genCtx, cancel := context.WithTimeout(ctx, uc.cfg.GenerateTimeout)
	defer cancel()

	if relevant {
		answer, err := uc.generator.Generate(genCtx, &entity.GenerationRequest{
			Mode:    entity.ModeGrounded,
			Query:   query,
			Context: retrieved.Context,
		})
		if err == nil && answer != "" {
			return answer, entity.SourceDocument
		}
		if err != nil {
			uc.metrics.Increment(metrics.GenerationErrors)
			ctxzap.Warn(ctx, "grounded generation failed", zap.Error(err))
		}
	}

	if !result.IsHighRisk {
		answer, err := uc.generator.Generate(genCtx, &entity.GenerationRequest{
			Mode:  entity.ModeGeneral,
			Query: query,
		})
		if err == nil && answer != "" {
			return answer, entity.SourceLLM
		}
		if err != nil {
			uc.metrics.Increment(metrics.GenerationErrors)
			ctxzap.Warn(ctx, "general generation failed", zap.Error(err))
		}
	}

	uc.metrics.Increment(metrics.RetrievalFailures)
	return noDocsReply, entity.SourceDocument
}

func (uc *ChatUsecase) escalatedResponse(result entity.IntentResult, escalation entity.EscalationResult) *entity.ChatResponse {
	resp := &entity.ChatResponse{
		Escalated:  true,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Source:     entity.SourceHuman,
		TicketID:   escalation.TicketID,
	}

	if agent := escalation.AssignedAgent; agent != nil {
		resp.Reply = fmt.Sprintf(
			"I've connected you with a support specialist who can help with this request.\n\n"+
				"Ticket ID: %s\nAgent: %s\n\nThey will be with you shortly.",
			escalation.TicketID, agent.Name,
		)
		resp.AssignedAgent = &entity.AssignedAgentDTO{
			AgentID:         agent.AgentID,
			Name:            agent.Name,
			Email:           agent.Email,
			Specializations: agent.Specializations,
		}
	} else {
		resp.Reply = fmt.Sprintf(
			"This request requires assistance from our support team. "+
				"I've created a ticket for you.\n\n"+
				"Ticket ID: %s\n\nA team member will contact you soon.",
			escalation.TicketID,
		)
	}

	return resp
}

// retrieve swallows retrieval failures: a broken index degrades the request
// to the no-documents path instead of failing it.
func (uc *ChatUsecase) retrieve(ctx context.Context, tenantID, query string) entity.RetrievalResponse {
	retrieved, err := uc.retriever.Retrieve(tenantID, query, uc.cfg.RetrievalTopK, uc.cfg.RetrievalMinScore)
	if err != nil {
		uc.metrics.Increment(metrics.RetrievalFailures)
		ctxzap.Warn(ctx, "document retrieval failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return entity.RetrievalResponse{}
	}
	return retrieved
}

func (uc *ChatUsecase) indexVersion(ctx context.Context, tenantID string) string {
	version, err := uc.retriever.Version(tenantID)
	if err != nil {
		ctxzap.Warn(ctx, "could not resolve index version, skipping cache", zap.Error(err))
		return ""
	}
	return version
}
