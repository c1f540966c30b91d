package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventseekr/backend/internal/application/services"
	"github.com/eventseekr/backend/internal/domain/entities"
	apperrors "github.com/eventseekr/backend/pkg/errors"
)

type stubSearchProvider struct {
	events     []entities.Event
	results    []entities.Event
	stats      services.Stats
	searchErr  error
	lastQuery  string
	searchHits int
}

func (s *stubSearchProvider) Events(ctx context.Context) ([]entities.Event, error) {
	return s.events, nil
}

func (s *stubSearchProvider) Search(ctx context.Context, rawQuery string) ([]entities.Event, error) {
	s.searchHits++
	s.lastQuery = rawQuery
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

func (s *stubSearchProvider) Stats() services.Stats {
	return s.stats
}

func TestListEvents(t *testing.T) {
	provider := &stubSearchProvider{
		events: []entities.Event{{ID: "0-a", Name: "Alpha"}},
	}
	handler := NewEventHandler(provider, false)

	rec := httptest.NewRecorder()
	handler.ListEvents(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var events []entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Alpha", events[0].Name)
}

func TestSearchPassesRawQuery(t *testing.T) {
	provider := &stubSearchProvider{
		results: []entities.Event{{ID: "0-a", Name: "Alpha"}},
	}
	handler := NewEventHandler(provider, true)

	body := bytes.NewBufferString(`{"query":"  Free AI  "}`)
	rec := httptest.NewRecorder()
	handler.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "  Free AI  ", provider.lastQuery, "the raw query reaches the service untrimmed")
}

func TestSearchEmptyBody(t *testing.T) {
	provider := &stubSearchProvider{results: []entities.Event{}}
	handler := NewEventHandler(provider, false)

	rec := httptest.NewRecorder()
	handler.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBuffer(nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, provider.lastQuery)
	assert.Equal(t, 1, provider.searchHits)
}

func TestSearchMalformedJSON(t *testing.T) {
	provider := &stubSearchProvider{}
	handler := NewEventHandler(provider, false)

	rec := httptest.NewRecorder()
	handler.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString("{not json")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, provider.searchHits)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload["error"])
}

func TestSearchPipelineFailure(t *testing.T) {
	provider := &stubSearchProvider{searchErr: errors.New("store unavailable")}
	handler := NewEventHandler(provider, false)

	rec := httptest.NewRecorder()
	handler.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"query":"x"}`)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload["error"])
	assert.Contains(t, payload["details"], "store unavailable")
}

func TestSearchValidationErrorReturns400(t *testing.T) {
	provider := &stubSearchProvider{searchErr: apperrors.NewValidationError("query exceeds maximum length")}
	handler := NewEventHandler(provider, false)

	rec := httptest.NewRecorder()
	handler.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"query":"x"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "query exceeds maximum length", payload["error"])
}

func TestHealthCheck(t *testing.T) {
	provider := &stubSearchProvider{
		stats: services.Stats{
			Initialized:   true,
			EventCount:    42,
			VectorCount:   42,
			CacheSize:     3,
			UptimeSeconds: 12.5,
		},
	}
	handler := NewEventHandler(provider, true)

	rec := httptest.NewRecorder()
	handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status      string `json:"status"`
		Environment struct {
			HasGeminiKey bool `json:"hasGeminiKey"`
		} `json:"environment"`
		Performance struct {
			CacheSize     int  `json:"cacheSize"`
			EventCount    int  `json:"eventCount"`
			IsInitialized bool `json:"isInitialized"`
		} `json:"performance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Status)
	assert.True(t, payload.Environment.HasGeminiKey)
	assert.True(t, payload.Performance.IsInitialized)
	assert.Equal(t, 42, payload.Performance.EventCount)
	assert.Equal(t, 3, payload.Performance.CacheSize)
}
