package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockIPExtractor struct {
	ip  string
	err error
}

func (m *mockIPExtractor) ExtractIP(r *http.Request) (string, error) {
	return m.ip, m.err
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, window, &RemoteAddrExtractor{})
	rl.now = clock.Now
	return rl, clock
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)
	h := rl.Middleware(okHandler)

	for range 3 {
		assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1234").Code)
	}

	rr := hit(h, "192.168.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rr.Body.String())
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestRateLimiter_ClientsIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	h := rl.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:2").Code)
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Minute)
	h := rl.Middleware(okHandler)

	hit(h, "10.0.0.1:1")
	clock.Advance(30 * time.Second)
	hit(h, "10.0.0.1:1")

	rr := hit(h, "10.0.0.1:1")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))

	clock.Advance(31 * time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
}

func TestRateLimiter_CountsRejections(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	h := rl.Middleware(okHandler)
	before := testutil.ToFloat64(rateLimitedTotal.WithLabelValues("/summarize"))

	hit(h, "10.0.0.1:1")
	hit(h, "10.0.0.1:1")
	hit(h, "10.0.0.1:1")

	assert.Equal(t, before+2, testutil.ToFloat64(rateLimitedTotal.WithLabelValues("/summarize")))
}

func TestRateLimiter_ExtractorErrorFallsBack(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, &mockIPExtractor{err: errors.New("boom")})
	h := rl.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1").Code)
}

func TestRateLimiter_TrustedProxyKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, NewTrustedProxyExtractor(trusted("10.0.0.0/8")))
	h := rl.Middleware(okHandler)

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = "10.0.0.2:443"
		req.Header.Set("X-Forwarded-For", client)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
}

func TestRateLimiter_CleanupExpired(t *testing.T) {
	rl, clock := newTestLimiter(5, time.Minute)
	h := rl.Middleware(okHandler)

	hit(h, "10.0.0.1:1")
	clock.Advance(45 * time.Second)
	hit(h, "10.0.0.2:1")
	clock.Advance(30 * time.Second)

	rl.CleanupExpired()

	assert.Equal(t, 1, rl.Clients())
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(50, time.Minute, &RemoteAddrExtractor{})
	h := rl.Middleware(okHandler)

	var mu sync.Mutex
	codes := map[int]int{}
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := hit(h, "10.0.0.1:1").Code
			mu.Lock()
			codes[code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, codes[http.StatusOK])
	assert.Equal(t, 50, codes[http.StatusTooManyRequests])
}

func TestRateLimiter_RunCleanupStops(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rl.RunCleanup(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not stop after cancel")
	}
}
