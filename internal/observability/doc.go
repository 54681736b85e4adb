// Package observability holds the logging, metrics, SLO and tracing support of
// the summarization service.
//
// Subpackages:
//   - logging: slog constructors and request-scoped loggers
//   - metrics: Prometheus metrics of the summarization, QA and extraction pipelines
//   - slo: rolling-window availability and latency indicators
//   - tracing: OpenTelemetry setup and the HTTP server span middleware
package observability
