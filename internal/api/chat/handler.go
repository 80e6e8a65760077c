package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/pkg/logger"
	"github.com/futig/support-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Warn(ctx, "failed to decode chat request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("tenant_id", req.TenantID),
		zap.String("user_id", req.UserID),
	)

	resp, err := h.usecase.Handle(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat request handled",
		zap.String("intent", string(resp.Intent)),
		zap.Bool("escalated", resp.Escalated),
		zap.String("source", string(resp.Source)),
	)

	response.Success(w, resp)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrEmptyMessage),
		errors.Is(err, entity.ErrMessageTooLong),
		errors.Is(err, entity.ErrMissingTenantID),
		errors.Is(err, entity.ErrMissingUserID):
		ctxzap.Warn(ctx, "chat request rejected", zap.Error(err))
		response.JSON(w, http.StatusBadRequest, entity.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: err.Error(),
		})
	default:
		ctxzap.Error(ctx, "chat request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
