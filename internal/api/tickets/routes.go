package tickets

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers ticket audit routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.List)

		r.Route("/{ticket_id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/export", h.Export)
		})
	})
}
