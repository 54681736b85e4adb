// Package http provides the HTTP middleware, health endpoints and metrics of
// the summarization API. Endpoint handlers live in sub-packages.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Health states reported by the health endpoints.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // healthy, degraded or unhealthy
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ProviderStatus is implemented by the model-backed summarizer and answerer.
type ProviderStatus interface {
	// Provider names the backend, e.g. "openai" or "noop".
	Provider() string
	// BreakerOpen reports whether calls are currently short-circuited.
	BreakerOpen() bool
}

// StatusOf returns v as a ProviderStatus, or nil if it does not report one.
func StatusOf(v any) ProviderStatus {
	if ps, ok := v.(ProviderStatus); ok {
		return ps
	}
	return nil
}

// ClientCounter reports how many clients a rate limiter is tracking.
type ClientCounter interface {
	Clients() int
}

// HealthHandler reports how the service is wired: which providers back the
// summarizer and answerer, whether their circuit breakers are open, and which
// document types can be extracted. An open breaker degrades the service; a
// missing component makes it unhealthy.
type HealthHandler struct {
	Version     string
	Summarizer  ProviderStatus
	Answerer    ProviderStatus
	MediaTypes  []string
	RateLimiter ClientCounter
	Now         func() time.Time
}

// ServeHTTP returns 200 for healthy or degraded and 503 for unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"summarizer": providerCheck(h.Summarizer),
		"answerer":   providerCheck(h.Answerer),
		"extractor":  h.extractorCheck(),
	}
	if h.RateLimiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status:  StatusHealthy,
			Details: map[string]any{"active_clients": h.RateLimiter.Clients()},
		}
	}

	status := StatusHealthy
	for _, c := range checks {
		switch c.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	writeHealth(w, code, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func providerCheck(ps ProviderStatus) CheckStatus {
	if ps == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}

	details := map[string]any{
		"provider":     ps.Provider(),
		"breaker_open": ps.BreakerOpen(),
	}
	if ps.BreakerOpen() {
		return CheckStatus{Status: StatusDegraded, Message: "circuit breaker open", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func (h *HealthHandler) extractorCheck() CheckStatus {
	if len(h.MediaTypes) == 0 {
		return CheckStatus{Status: StatusUnhealthy, Message: "no extractors registered"}
	}
	return CheckStatus{Status: StatusHealthy, Details: map[string]any{"media_types": h.MediaTypes}}
}

func writeHealth(w http.ResponseWriter, code int, v HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("health: failed to encode response", slog.Any("error", err))
	}
}

// ReadyHandler handles Kubernetes readiness probe requests. The service is
// ready once both model-backed components are wired and the summarizer's
// circuit breaker is closed.
type ReadyHandler struct {
	Summarizer ProviderStatus
	Answerer   ProviderStatus
}

// ServeHTTP returns 200 "ready" or 503 with the reason.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.Summarizer == nil || h.Answerer == nil:
		http.Error(w, "model providers not configured", http.StatusServiceUnavailable)
		return
	case h.Summarizer.BreakerOpen():
		http.Error(w, "summarizer unavailable: circuit breaker open", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Error("ready: failed to write response", slog.Any("error", err))
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 "alive" while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Error("alive: failed to write response", slog.Any("error", err))
	}
}
