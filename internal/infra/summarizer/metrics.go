package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CallStats describes one successful summarization call.
type CallStats struct {
	Provider string
	Words    int
	MaxWords int
	Duration time.Duration
}

// WithinBudget reports whether the summary respected its maximum length.
func (c CallStats) WithinBudget() bool { return c.Words <= c.MaxWords }

// SummaryMetricsRecorder records the outcome of individual summarization calls.
//
// For testing with mocks:
//
//	type MockMetricsRecorder struct{ Calls []CallStats }
//
//	func (m *MockMetricsRecorder) RecordCall(c CallStats) { m.Calls = append(m.Calls, c) }
type SummaryMetricsRecorder interface {
	RecordCall(c CallStats)
}

// PrometheusSummaryMetrics records calls as Prometheus metrics labelled by provider.
type PrometheusSummaryMetrics struct {
	words      *prometheus.HistogramVec
	budgetUsed *prometheus.HistogramVec
	exceeded   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var prometheusSummaryMetrics = sync.OnceValue(func() *PrometheusSummaryMetrics {
	return &PrometheusSummaryMetrics{
		words: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summary_length_words",
			Help:    "Length of generated summaries in words",
			Buckets: []float64{5, 10, 20, 30, 50, 80, 120, 150, 200, 300},
		}, []string{"provider"}),
		budgetUsed: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summary_budget_used_ratio",
			Help:    "Summary length divided by the requested maximum word count",
			Buckets: []float64{0.25, 0.5, 0.75, 0.9, 1, 1.1, 1.5, 2},
		}, []string{"provider"}),
		exceeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "summary_budget_exceeded_total",
			Help: "Summaries longer than the requested maximum word count",
		}, []string{"provider"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "summary_call_duration_seconds",
			Help:    "Time taken by a single summarization model call",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"provider"}),
	}
})

// NewPrometheusSummaryMetrics returns the process-wide recorder. The metrics
// are registered once with the default registry.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	return prometheusSummaryMetrics()
}

// RecordCall implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordCall(c CallStats) {
	p.words.WithLabelValues(c.Provider).Observe(float64(c.Words))
	p.duration.WithLabelValues(c.Provider).Observe(c.Duration.Seconds())
	if c.MaxWords > 0 {
		p.budgetUsed.WithLabelValues(c.Provider).Observe(float64(c.Words) / float64(c.MaxWords))
	}
	if !c.WithinBudget() {
		p.exceeded.WithLabelValues(c.Provider).Inc()
	}
}
