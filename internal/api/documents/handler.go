package documents

import (
	"net/http"
	"strings"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/pkg/logger"
	"github.com/futig/support-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	ingester Ingester
	manager  IndexManager
}

func NewHandler(ingester Ingester, manager IndexManager) *Handler {
	return &Handler{
		ingester: ingester,
		manager:  manager,
	}
}

// Ingest handles POST /documents/{tenant_id}/ingest
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("tenant_id", tenantID),
		zap.String("action", "Ingest"),
	)

	if strings.TrimSpace(tenantID) == "" {
		response.Error(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	result, err := h.ingester.IngestAll(ctx, tenantID, force)
	if err != nil {
		ctxzap.Error(ctx, "ingestion failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	ctxzap.Info(ctx, "ingestion completed",
		zap.Int("processed", len(result.Processed)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("total_chunks", result.TotalChunks),
	)

	response.Success(w, result)
}

// Status handles GET /documents/{tenant_id}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("tenant_id", tenantID),
		zap.String("action", "IndexStatus"),
	)

	idx, err := h.manager.Get(tenantID)
	if err != nil {
		ctxzap.Error(ctx, "failed to open index", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to open index")
		return
	}

	response.Success(w, entity.IndexStatus{
		TenantID:   tenantID,
		ChunkCount: idx.Count(),
		Version:    idx.Version(),
	})
}

// Clear handles DELETE /documents/{tenant_id}
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("tenant_id", tenantID),
		zap.String("action", "ClearIndex"),
	)

	if err := h.manager.Clear(tenantID); err != nil {
		ctxzap.Error(ctx, "failed to clear index", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to clear index")
		return
	}

	ctxzap.Info(ctx, "index cleared")
	response.NoContent(w)
}
