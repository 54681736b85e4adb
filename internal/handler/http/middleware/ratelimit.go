package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"context-summarizer/internal/handler/http/pathutil"
	"context-summarizer/internal/handler/http/respond"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Total number of requests rejected by the per-client rate limiter",
	},
	[]string{"path"},
)

// ErrRateLimited is the error returned to clients over their request budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiter is a per-client sliding window limiter for the model-backed
// endpoints, where each request may fan out into several provider calls.
type RateLimiter struct {
	limit       int
	window      time.Duration
	ipExtractor IPExtractor
	now         func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewRateLimiter allows limit requests per client within window.
//
//	limiter := NewRateLimiter(60, time.Minute, &RemoteAddrExtractor{})
//	mux.Handle("POST /summarize", limiter.Middleware(summarizeHandler))
func NewRateLimiter(limit int, window time.Duration, ipExtractor IPExtractor) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		window:      window,
		ipExtractor: ipExtractor,
		now:         time.Now,
		requests:    make(map[string][]time.Time),
	}
}

// Middleware rejects requests over the limit with 429, a JSON error body and a
// Retry-After header. If the extractor fails the peer address is used instead.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed, using RemoteAddr fallback",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip = r.RemoteAddr
		}

		allowed, retryAfter := rl.allow(ip)
		if !allowed {
			path := pathutil.NormalizePath(r.URL.Path)
			rateLimitedTotal.WithLabelValues(path).Inc()
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", path),
				slog.Int("limit", rl.limit),
				slog.Duration("window", rl.window))

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respond.SafeError(w, http.StatusTooManyRequests, ErrRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records a request for key if it is within the limit. When it is not,
// the returned duration is the time until the oldest request leaves the window.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := prune(rl.requests[key], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		wait := valid[0].Sub(cutoff)
		if wait < time.Second {
			wait = time.Second
		}
		return false, wait
	}

	rl.requests[key] = append(valid, now)
	return true, 0
}

// prune drops timestamps at or before cutoff. ts is sorted oldest first.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == len(ts) {
		return nil
	}
	return ts[i:]
}

// CleanupExpired forgets clients whose requests have all left the window.
func (rl *RateLimiter) CleanupExpired() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, ts := range rl.requests {
		if valid := prune(ts, cutoff); len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// Clients returns the number of clients currently tracked.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}

// RunCleanup calls CleanupExpired every interval until ctx is done.
// It always returns nil so it can run inside an errgroup.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return nil
		case <-ticker.C:
			rl.CleanupExpired()
			slog.Debug("rate limit cleanup completed", slog.Int("active_clients", rl.Clients()))
		}
	}
}
