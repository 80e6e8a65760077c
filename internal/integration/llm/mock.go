package llm

import (
	"context"
	"fmt"

	"github.com/futig/support-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a deterministic Provider for local development and tests
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Name() string {
	return "mock"
}

func (m *MockConnector) Generate(ctx context.Context, req *entity.GenerationRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating reply via LLM", zap.String("mode", string(req.Mode)))

	var answer string
	switch req.Mode {
	case entity.ModeGrounded:
		if req.Context == "" {
			answer = "This information is not available in the provided documentation."
		} else {
			answer = fmt.Sprintf("Based on the documentation: %.300s", req.Context)
		}
	default:
		answer = fmt.Sprintf("Here is some general guidance regarding your question: %q. "+
			"For product-specific details, please consult the documentation or contact support.", req.Query)
	}

	ctxzap.Info(ctx, "[MOCK] reply generated", zap.Int("result_length", len(answer)))
	return answer, nil
}
