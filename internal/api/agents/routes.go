package agents

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers agent pool routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/agents", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/", h.List)

		r.Route("/{agent_id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/status", h.UpdateStatus)
			r.Post("/release", h.Release)
		})
	})
}
