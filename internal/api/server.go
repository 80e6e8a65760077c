package api

import (
	"net/http"
	"time"

	agentsapi "github.com/futig/support-backend/internal/api/agents"
	chatapi "github.com/futig/support-backend/internal/api/chat"
	"github.com/futig/support-backend/internal/api/docs"
	documentsapi "github.com/futig/support-backend/internal/api/documents"
	"github.com/futig/support-backend/internal/api/middleware"
	ticketsapi "github.com/futig/support-backend/internal/api/tickets"
	"github.com/futig/support-backend/internal/cache"
	"github.com/futig/support-backend/internal/pkg/metrics"
	"github.com/futig/support-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	chatHandler *chatapi.Handler,
	documentsHandler *documentsapi.Handler,
	agentsHandler *agentsapi.Handler,
	ticketsHandler *ticketsapi.Handler,
	collector *metrics.Collector,
	respCache *cache.ResponseCache,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Aggregate pipeline counters and cache hit rate
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]any{
			"counters": collector.Snapshot(),
			"cache":    respCache.Stats(),
		})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	chatapi.RegisterRoutes(r, chatHandler)
	documentsapi.RegisterRoutes(r, documentsHandler)
	agentsapi.RegisterRoutes(r, agentsHandler)
	ticketsapi.RegisterRoutes(r, ticketsHandler)

	return r
}
