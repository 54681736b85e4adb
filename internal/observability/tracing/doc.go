// Package tracing provides OpenTelemetry tracing integration.
//
// The package exposes a single application tracer and an HTTP middleware that
// starts a server span per request. Use cases open child spans for each
// summarization stage so a slow model call shows up under its request.
//
// Example usage:
//
//	import "context-summarizer/internal/observability/tracing"
//
//	ctx, span := tracing.GetTracer().Start(ctx, "summarize.chunk")
//	defer span.End()
package tracing
