package llm

import (
	"context"
	"errors"

	"github.com/futig/support-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// FallbackChain tries providers in order and returns the first successful
// generation. A provider failure is isolated: it is logged and the next
// provider is tried.
type FallbackChain struct {
	providers []Provider
	logger    *zap.Logger
}

func NewFallbackChain(logger *zap.Logger, providers ...Provider) *FallbackChain {
	return &FallbackChain{
		providers: providers,
		logger:    logger,
	}
}

func (c *FallbackChain) Name() string {
	return "fallback-chain"
}

func (c *FallbackChain) Generate(ctx context.Context, req *entity.GenerationRequest) (string, error) {
	if len(c.providers) == 0 {
		return "", entity.ErrNoProviders
	}

	var errs []error
	for _, p := range c.providers {
		answer, err := p.Generate(ctx, req)
		if err == nil {
			return answer, nil
		}

		ctxzap.Warn(ctx, "generation provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return "", errors.Join(errs...)
}
