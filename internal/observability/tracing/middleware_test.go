package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// useRecorder points the package tracer at an in-memory exporter.
func useRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prevTracer := tracer
	prevProp := otel.GetTextMapPropagator()
	tracer = tp.Tracer(ServiceName)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		tracer = prevTracer
		otel.SetTextMapPropagator(prevProp)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func attrs(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		out[kv.Key] = kv.Value
	}
	return out
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	exporter := useRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	rr := serve(handler, httptest.NewRequest(http.MethodPost, "/summarize", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "POST /summarize", span.Name)
	assert.Equal(t, trace.SpanKindServer, span.SpanKind)

	a := attrs(span.Attributes)
	assert.Equal(t, "POST", a["http.method"].AsString())
	assert.Equal(t, "/summarize", a["http.path"].AsString())
	assert.Equal(t, int64(200), a["http.status_code"].AsInt64())
	assert.Equal(t, int64(2), a["http.response_size"].AsInt64())

	assert.Equal(t, span.SpanContext.TraceID().String(), rr.Header().Get(TraceIDHeader))
	assert.Len(t, rr.Header().Get(TraceIDHeader), 32)
}

func TestMiddleware_UnknownPathCollapsed(t *testing.T) {
	exporter := useRecorder(t)

	serve(Middleware(http.NotFoundHandler()), httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /other", spans[0].Name)
	assert.Equal(t, int64(404), attrs(spans[0].Attributes)["http.status_code"].AsInt64())
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter := useRecorder(t)

	var inner trace.SpanContext
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanContextFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rr := serve(handler, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rr.Header().Get(TraceIDHeader))
	assert.Equal(t, spans[0].SpanContext.SpanID(), inner.SpanID())
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantError bool
	}{
		{http.StatusOK, false},
		{http.StatusBadRequest, false},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, true},
		{http.StatusGatewayTimeout, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			exporter := useRecorder(t)

			serve(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			})), httptest.NewRequest(http.MethodPost, "/generate", nil))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			_, hasError := attrs(spans[0].Attributes)["error"]
			assert.Equal(t, tt.wantError, hasError)
			if tt.wantError {
				assert.Equal(t, codes.Error, spans[0].Status.Code)
			} else {
				assert.Equal(t, codes.Unset, spans[0].Status.Code)
			}
		})
	}
}

func TestSetup(t *testing.T) {
	prevTracer := tracer
	prevProvider := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		tracer = prevTracer
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevProp)
	})

	shutdown := Setup("test", 1)

	rr := serve(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})),
		httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Len(t, rr.Header().Get(TraceIDHeader), 32)
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	require.NoError(t, shutdown(context.Background()))
}
