package routes

import (
	"net/http"

	"github.com/eventseekr/backend/internal/api/handlers"
	"github.com/eventseekr/backend/internal/api/middleware"
	"github.com/eventseekr/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	eventHandler *handlers.EventHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	eventHandler *handlers.EventHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		eventHandler:    eventHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Event endpoints. Unprefixed aliases are kept for clients that talk
	// to the server without the /api prefix.
	r.mux.HandleFunc("GET /api/events", r.eventHandler.ListEvents)
	r.mux.HandleFunc("GET /events", r.eventHandler.ListEvents)

	r.mux.HandleFunc("POST /api/search", r.eventHandler.Search)
	r.mux.HandleFunc("POST /search", r.eventHandler.Search)

	// Health check endpoint
	r.mux.HandleFunc("GET /api/test", r.eventHandler.HealthCheck)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
