package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/futig/support-backend/internal/config"
	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/integration/common"
	pkghttp "github.com/futig/support-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Provider generates a reply for a user query. Implementations must be safe
// for concurrent use.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *entity.GenerationRequest) (string, error)
}

type Connector struct {
	config          config.LLMConnectorConfig
	connector       *pkghttp.Connector
	maxAnswerLength int
	logger          *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	maxAnswerLength int,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector:       common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:          cfg,
		maxAnswerLength: maxAnswerLength,
		logger:          logger,
	}
}

func (c *Connector) Name() string {
	return c.config.Model
}

// Generate produces a reply via the chat-completions endpoint. Transient
// failures are retried per the connector's retry policy.
func (c *Connector) Generate(ctx context.Context, req *entity.GenerationRequest) (string, error) {
	ctxzap.Info(ctx, "generating reply via LLM service",
		zap.String("model", c.config.Model),
		zap.String("mode", string(req.Mode)),
	)

	wireReq := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    buildMessages(req),
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var wireResp entity.ChatCompletionResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, wireReq, &wireResp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(wireResp.Choices) == 0 {
		return "", entity.ErrEmptyGeneration
	}
	answer := strings.TrimSpace(wireResp.Choices[0].Message.Content)
	if answer == "" {
		return "", entity.ErrEmptyGeneration
	}

	answer = truncate(answer, c.maxAnswerLength)

	ctxzap.Info(ctx, "reply generated successfully", zap.Int("result_length", len(answer)))

	return answer, nil
}

func buildMessages(req *entity.GenerationRequest) []entity.ChatMessage {
	if req.Mode == entity.ModeGrounded {
		user := fmt.Sprintf("CONTEXT FROM DOCUMENTATION:\n%s\n\nUSER QUESTION: %s", req.Context, req.Query)
		return []entity.ChatMessage{
			{Role: "system", Content: groundedSystemPrompt},
			{Role: "user", Content: user},
		}
	}
	return []entity.ChatMessage{
		{Role: "system", Content: generalSystemPrompt},
		{Role: "user", Content: req.Query},
	}
}

// truncate cuts the answer at a rune boundary and marks the cut with an
// ellipsis so truncated replies are distinguishable from complete ones.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
