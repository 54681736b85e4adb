package document

import (
	"log/slog"
	"net/http"
)

// Config holds the per-route limits of the document endpoints.
type Config struct {
	// MaxBodyBytes limits JSON request bodies of /summarize and /generate.
	MaxBodyBytes int64
	// MaxUploadBytes limits the multipart body of /upload.
	MaxUploadBytes int64
}

// Register registers the summarization, question answering and upload handlers
// with the given mux. wrap, if non-nil, is applied to the model-backed routes
// (typically a request timeout).
func Register(mux *http.ServeMux, sum Summarizer, gen Generator, ext Extractor, cfg Config, logger *slog.Logger, wrap func(http.Handler) http.Handler) {
	if logger == nil {
		logger = slog.Default()
	}
	if wrap == nil {
		wrap = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("POST /summarize", wrap(SummarizeHandler{Svc: sum, MaxBytes: cfg.MaxBodyBytes}))
	mux.Handle("POST /generate", wrap(GenerateHandler{Svc: gen, MaxBytes: cfg.MaxBodyBytes}))
	mux.Handle("POST /upload", UploadHandler{Svc: ext, MaxBytes: cfg.MaxUploadBytes, Logger: logger})
}
