package slo

import (
	"context"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"context-summarizer/internal/handler/http/responsewriter"
)

// DefaultMaxSamples bounds the memory a Tracker uses under heavy load.
const DefaultMaxSamples = 10000

type sample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// Snapshot holds the indicators computed over one window.
type Snapshot struct {
	Requests     int
	Availability float64
	ErrorRate    float64
	LatencyP95   time.Duration
	LatencyP99   time.Duration
}

// Tracker keeps the outcomes of recent requests and derives SLO indicators
// from those inside the window. A request counts as failed when it ends with
// a 5xx status.
type Tracker struct {
	window     time.Duration
	maxSamples int
	now        func() time.Time

	mu      sync.Mutex
	samples []sample
}

// NewTracker creates a Tracker over the given window.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{window: window, maxSamples: DefaultMaxSamples, now: time.Now}
}

// Observe records one finished request.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = append(t.samples, sample{at: t.now(), duration: d, failed: status >= http.StatusInternalServerError})
	if over := len(t.samples) - t.maxSamples; over > 0 {
		t.samples = append(t.samples[:0], t.samples[over:]...)
	}
}

// Snapshot drops samples older than the window and computes the indicators of
// the rest. With no samples the service counts as fully available.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	cutoff := t.now().Add(-t.window)
	i := sort.Search(len(t.samples), func(i int) bool { return t.samples[i].at.After(cutoff) })
	t.samples = append(t.samples[:0], t.samples[i:]...)

	durations := make([]time.Duration, len(t.samples))
	failed := 0
	for j, s := range t.samples {
		durations[j] = s.duration
		if s.failed {
			failed++
		}
	}
	t.mu.Unlock()

	snap := Snapshot{Requests: len(durations), Availability: 1}
	if snap.Requests == 0 {
		return snap
	}

	sort.Slice(durations, func(a, b int) bool { return durations[a] < durations[b] })
	snap.ErrorRate = float64(failed) / float64(snap.Requests)
	snap.Availability = 1 - snap.ErrorRate
	snap.LatencyP95 = percentile(durations, 0.95)
	snap.LatencyP99 = percentile(durations, 0.99)
	return snap
}

// percentile returns the nearest-rank percentile of sorted durations.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	rank = max(0, min(rank, len(sorted)-1))
	return sorted[rank]
}

// Update publishes the current snapshot to the SLO gauges.
func (t *Tracker) Update() Snapshot {
	snap := t.Snapshot()
	SLOAvailability.Set(snap.Availability)
	SLOErrorRate.Set(snap.ErrorRate)
	SLOLatencyP95.Set(snap.LatencyP95.Seconds())
	SLOLatencyP99.Set(snap.LatencyP99.Seconds())
	return snap
}

// Run updates the gauges every interval until ctx is done. It always returns
// nil so it can run in an errgroup beside the server.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Update()
		}
	}
}

// Middleware observes the status and latency of every request through next.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := t.now()
		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r)
		t.Observe(rw.StatusCode(), t.now().Sub(start))
	})
}
