package summarizer

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusSummaryMetrics_Singleton(t *testing.T) {
	m := NewPrometheusSummaryMetrics()

	require.NotNil(t, m)
	assert.Same(t, m, NewPrometheusSummaryMetrics())
}

func TestPrometheusSummaryMetrics_RecordCall(t *testing.T) {
	m := NewPrometheusSummaryMetrics()
	exceededBefore := testutil.ToFloat64(m.exceeded.WithLabelValues("metrics-test"))

	m.RecordCall(CallStats{Provider: "metrics-test", Words: 40, MaxWords: 120, Duration: 800 * time.Millisecond})
	m.RecordCall(CallStats{Provider: "metrics-test", Words: 130, MaxWords: 120, Duration: 3 * time.Second})

	assert.Equal(t, exceededBefore+1, testutil.ToFloat64(m.exceeded.WithLabelValues("metrics-test")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.words.WithLabelValues("metrics-test").(prometheus.Collector)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration.WithLabelValues("metrics-test").(prometheus.Collector)))
}

func TestPrometheusSummaryMetrics_ZeroMaxWordsSkipsRatio(t *testing.T) {
	m := NewPrometheusSummaryMetrics()

	assert.NotPanics(t, func() {
		m.RecordCall(CallStats{Provider: "zero-budget", Words: 0, MaxWords: 0})
	})
}

func TestCallStats_WithinBudget(t *testing.T) {
	assert.True(t, CallStats{Words: 120, MaxWords: 120}.WithinBudget())
	assert.False(t, CallStats{Words: 121, MaxWords: 120}.WithinBudget())
}

func TestPrometheusSummaryMetrics_ConcurrentAccess(t *testing.T) {
	m := NewPrometheusSummaryMetrics()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.RecordCall(CallStats{Provider: "concurrent", Words: n, MaxWords: 10, Duration: time.Duration(n) * time.Millisecond})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 9.0, testutil.ToFloat64(m.exceeded.WithLabelValues("concurrent")))
}

func TestPrometheusSummaryMetrics_ImplementsInterface(t *testing.T) {
	var _ SummaryMetricsRecorder = NewPrometheusSummaryMetrics()
	var _ SummaryMetricsRecorder = &MockMetricsRecorder{}
}
