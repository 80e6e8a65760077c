package agents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/pkg/logger"
	"github.com/futig/support-backend/internal/pkg/response"
	"github.com/futig/support-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	pool      AgentPool
	validator *validator.Validator
}

func NewHandler(pool AgentPool, validator *validator.Validator) *Handler {
	return &Handler{
		pool:      pool,
		validator: validator,
	}
}

// Register handles POST /agents
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RegisterAgent")

	var req entity.RegisterAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateRegisterAgent(&req); err != nil {
		ctxzap.Warn(ctx, "agent registration rejected", zap.Error(err))
		response.JSON(w, http.StatusBadRequest, entity.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: err.Error(),
		})
		return
	}

	agent := h.pool.Register(req)

	ctxzap.Info(ctx, "agent registered", zap.String("agent_id", agent.AgentID))
	response.Created(w, agent)
}

// List handles GET /agents
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.pool.All())
}

// Get handles GET /agents/{agent_id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agent_id")

	agent, err := h.pool.Get(agentID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, agent)
}

// UpdateStatus handles PATCH /agents/{agent_id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UpdateAgentStatus")
	agentID := chi.URLParam(r, "agent_id")

	var req entity.UpdateAgentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Status.Validate(); err != nil {
		response.JSON(w, http.StatusBadRequest, entity.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: err.Error(),
		})
		return
	}

	if err := h.pool.SetStatus(agentID, req.Status); err != nil {
		h.handleError(w, err)
		return
	}

	ctxzap.Info(ctx, "agent status updated",
		zap.String("agent_id", agentID),
		zap.String("status", string(req.Status)),
	)
	response.NoContent(w)
}

// Release handles POST /agents/{agent_id}/release
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ReleaseAgent")
	agentID := chi.URLParam(r, "agent_id")

	if err := h.pool.Release(agentID); err != nil {
		h.handleError(w, err)
		return
	}

	ctxzap.Info(ctx, "agent released", zap.String("agent_id", agentID))
	response.NoContent(w)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrAgentNotFound) {
		response.Error(w, http.StatusNotFound, "agent not found")
		return
	}
	response.Error(w, http.StatusInternalServerError, "internal server error")
}
