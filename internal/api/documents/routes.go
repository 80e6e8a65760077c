package documents

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document ingestion routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/documents/{tenant_id}", func(r chi.Router) {
		r.Post("/ingest", h.Ingest)
		r.Get("/status", h.Status)
		r.Delete("/", h.Clear)
	})
}
