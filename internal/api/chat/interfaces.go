package chat

import (
	"context"

	"github.com/futig/support-backend/internal/entity"
)

type ChatUsecase interface {
	Handle(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResponse, error)
}
