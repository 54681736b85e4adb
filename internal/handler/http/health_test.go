package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
	open bool
}

func (s stubProvider) Provider() string  { return s.name }
func (s stubProvider) BreakerOpen() bool { return s.open }

type stubCounter int

func (c stubCounter) Clients() int { return int(c) }

func serveHealth(t *testing.T, h *HealthHandler) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		handler    *HealthHandler
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name: "all healthy",
			handler: &HealthHandler{
				Summarizer: stubProvider{name: "openai"},
				Answerer:   stubProvider{name: "openai"},
				MediaTypes: []string{"application/pdf", "text/plain"},
			},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
			wantChecks: map[string]string{"summarizer": StatusHealthy, "answerer": StatusHealthy, "extractor": StatusHealthy},
		},
		{
			name: "open breaker degrades",
			handler: &HealthHandler{
				Summarizer: stubProvider{name: "claude", open: true},
				Answerer:   stubProvider{name: "claude"},
				MediaTypes: []string{"text/plain"},
			},
			wantCode:   http.StatusOK,
			wantStatus: StatusDegraded,
			wantChecks: map[string]string{"summarizer": StatusDegraded, "answerer": StatusHealthy},
		},
		{
			name: "missing answerer is unhealthy",
			handler: &HealthHandler{
				Summarizer: stubProvider{name: "noop", open: true},
				MediaTypes: []string{"text/plain"},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
			wantChecks: map[string]string{"summarizer": StatusDegraded, "answerer": StatusUnhealthy},
		},
		{
			name: "no extractors is unhealthy",
			handler: &HealthHandler{
				Summarizer: stubProvider{name: "noop"},
				Answerer:   stubProvider{name: "noop"},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
			wantChecks: map[string]string{"extractor": StatusUnhealthy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.handler.Version = "test-version"
			tt.handler.Now = func() time.Time { return fixed }

			rec, body := serveHealth(t, tt.handler)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "test-version", body.Version)
			assert.Equal(t, "2026-01-02T03:04:05Z", body.Timestamp)
			for name, want := range tt.wantChecks {
				assert.Equal(t, want, body.Checks[name].Status, name)
			}
		})
	}
}

func TestHealthHandler_ProviderDetails(t *testing.T) {
	h := &HealthHandler{
		Summarizer:  stubProvider{name: "gemini", open: true},
		Answerer:    stubProvider{name: "ollama"},
		MediaTypes:  []string{"text/html"},
		RateLimiter: stubCounter(7),
	}

	_, body := serveHealth(t, h)

	sum := body.Checks["summarizer"]
	assert.Equal(t, "gemini", sum.Details["provider"])
	assert.Equal(t, true, sum.Details["breaker_open"])
	assert.Equal(t, "circuit breaker open", sum.Message)

	assert.Equal(t, "ollama", body.Checks["answerer"].Details["provider"])
	assert.Equal(t, []any{"text/html"}, body.Checks["extractor"].Details["media_types"])
	assert.Equal(t, float64(7), body.Checks["rate_limiter"].Details["active_clients"])
}

func TestHealthHandler_NoRateLimiterCheck(t *testing.T) {
	h := &HealthHandler{Summarizer: stubProvider{}, Answerer: stubProvider{}, MediaTypes: []string{"text/plain"}}

	_, body := serveHealth(t, h)

	_, ok := body.Checks["rate_limiter"]
	assert.False(t, ok)
}

func TestStatusOf(t *testing.T) {
	assert.NotNil(t, StatusOf(stubProvider{name: "x"}))
	assert.Nil(t, StatusOf(struct{}{}))
	assert.Nil(t, StatusOf(nil))
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name     string
		handler  *ReadyHandler
		wantCode int
		wantBody string
	}{
		{
			name:     "ready",
			handler:  &ReadyHandler{Summarizer: stubProvider{}, Answerer: stubProvider{}},
			wantCode: http.StatusOK,
			wantBody: "ready",
		},
		{
			name:     "not configured",
			handler:  &ReadyHandler{Summarizer: stubProvider{}},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "model providers not configured\n",
		},
		{
			name:     "summarizer breaker open",
			handler:  &ReadyHandler{Summarizer: stubProvider{open: true}, Answerer: stubProvider{}},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "summarizer unavailable: circuit breaker open\n",
		},
		{
			name:     "answerer breaker open stays ready",
			handler:  &ReadyHandler{Summarizer: stubProvider{}, Answerer: stubProvider{open: true}},
			wantCode: http.StatusOK,
			wantBody: "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()

	(&LiveHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
