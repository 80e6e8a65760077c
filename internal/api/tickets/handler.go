package tickets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/pkg/formatter"
	"github.com/futig/support-backend/internal/pkg/logger"
	"github.com/futig/support-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Handler struct {
	repo      TicketRepository
	formatter *formatter.Factory
}

func NewHandler(repo TicketRepository, factory *formatter.Factory) *Handler {
	return &Handler{
		repo:      repo,
		formatter: factory,
	}
}

// List handles GET /tickets?tenant_id=&limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListTickets")

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		response.Error(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	tickets, err := h.repo.ListTickets(ctx, tenantID, limit, offset)
	if err != nil {
		ctxzap.Error(ctx, "failed to list tickets", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response.Success(w, tickets)
}

// Get handles GET /tickets/{ticket_id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetTicket")
	ticketID := chi.URLParam(r, "ticket_id")

	ticket, err := h.repo.GetTicket(ctx, ticketID)
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	response.Success(w, ticket)
}

// Export handles GET /tickets/{ticket_id}/export?format=md|pdf
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportTicket")
	ticketID := chi.URLParam(r, "ticket_id")

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	fmtr, err := h.formatter.Create(format)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ticket, err := h.repo.GetTicket(ctx, ticketID)
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	data, err := fmtr.Format(toHandoffText(ticket))
	if err != nil {
		ctxzap.Error(ctx, "failed to format ticket", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format ticket")
		return
	}

	w.Header().Set("Content-Type", fmtr.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s%s", ticket.TicketID, fmtr.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrTicketNotFound) {
		response.Error(w, http.StatusNotFound, "ticket not found")
		return
	}
	ctxzap.Error(ctx, "ticket lookup failed", zap.Error(err))
	response.Error(w, http.StatusInternalServerError, "internal server error")
}
