// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the business metrics of the summarization service:
//   - Document and chunk summarization (count, chunks per document, duration)
//   - Question answering results
//   - Circuit breaker state per model provider
//   - Document text extraction (result, extracted size)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint. HTTP request metrics live next to the
// HTTP middleware in the handler package.
//
// Example usage:
//
//	import "context-summarizer/internal/observability/metrics"
//
//	func summarize(ctx context.Context, text string) {
//	    start := time.Now()
//	    // ... split and summarize ...
//	    metrics.RecordChunkCount(len(chunks))
//	    metrics.RecordDocumentSummarized(err == nil, time.Since(start))
//	}
package metrics
