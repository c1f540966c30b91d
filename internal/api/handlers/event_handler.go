package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/eventseekr/backend/internal/application/services"
	"github.com/eventseekr/backend/internal/domain/entities"
	apperrors "github.com/eventseekr/backend/pkg/errors"
)

// SearchProvider is the slice of SearchService the HTTP layer needs.
type SearchProvider interface {
	Events(ctx context.Context) ([]entities.Event, error)
	Search(ctx context.Context, rawQuery string) ([]entities.Event, error)
	Stats() services.Stats
}

// EventHandler handles event listing and search HTTP requests
type EventHandler struct {
	service      SearchProvider
	hasGeminiKey bool
}

// NewEventHandler creates a new event handler
func NewEventHandler(service SearchProvider, hasGeminiKey bool) *EventHandler {
	return &EventHandler{
		service:      service,
		hasGeminiKey: hasGeminiKey,
	}
}

// searchRequest is the POST /api/search body.
type searchRequest struct {
	Query string `json:"query"`
}

// ListEvents handles GET /api/events and returns the full store unfiltered.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.Events(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}
	respondWithJSON(w, http.StatusOK, events)
}

// Search handles POST /api/search. An empty or missing query returns the
// full store.
func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	// An absent body means an empty query, which returns the full store.
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	results, err := h.service.Search(r.Context(), req.Query)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
			respondWithError(w, http.StatusBadRequest, appErr.Message, nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Search failed. Please try again.", err)
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}

// HealthCheck handles GET /api/test and reports runtime diagnostics.
func (h *EventHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Stats()
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "API is working!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": map[string]any{
			"hasGeminiKey": h.hasGeminiKey,
		},
		"performance": map[string]any{
			"cacheSize":     stats.CacheSize,
			"eventCount":    stats.EventCount,
			"vectorCount":   stats.VectorCount,
			"isInitialized": stats.Initialized,
			"uptime":        stats.UptimeSeconds,
		},
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	respondWithJSON(w, statusCode, body)
}
