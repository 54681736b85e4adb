// Package slo tracks service level indicators of the document endpoints and
// publishes them as Prometheus gauges.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the model-backed endpoints. Latency targets cover a full
// chunk-summarize-recombine run, which makes several model calls.
const (
	// AvailabilitySLO is the target percentage of non-5xx responses.
	AvailabilitySLO = 99.5

	// LatencyP95SLO is the 95th percentile latency target in seconds.
	LatencyP95SLO = 20.0

	// LatencyP99SLO is the 99th percentile latency target in seconds.
	LatencyP99SLO = 60.0

	// ErrorRateSLO is the maximum acceptable 5xx ratio.
	ErrorRateSLO = 0.005
)

var (
	// SLOAvailability is (requests - 5xx) / requests over the tracking window.
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Availability ratio (0-1) over the SLO window, target: 0.995",
		},
	)

	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "p95 latency in seconds over the SLO window, target: 20",
		},
	)

	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "p99 latency in seconds over the SLO window, target: 60",
		},
	)

	// SLOErrorRate is 5xx / requests over the tracking window.
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "5xx ratio (0-1) over the SLO window, target: 0.005",
		},
	)
)
