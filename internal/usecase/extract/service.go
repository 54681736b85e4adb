// Package extract converts uploaded documents to plain text by dispatching on
// their declared media type.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"sort"
	"strings"
	"time"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/observability/logging"
	"context-summarizer/internal/observability/metrics"
	"context-summarizer/internal/utils/text"
)

// Media types with a built-in extractor.
const (
	MediaTypePlainText = "text/plain"
	MediaTypePDF       = "application/pdf"
	MediaTypeHTML      = "text/html"
)

// Extractor converts the raw bytes of one document kind to plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Service dispatches extraction requests to the Extractor registered for the
// request's media type.
type Service struct {
	extractors map[string]Extractor
}

// NewService creates an extraction Service. Keys of extractors are media types
// without parameters, e.g. "application/pdf".
func NewService(extractors map[string]Extractor) *Service {
	normalized := make(map[string]Extractor, len(extractors))
	for mt, ex := range extractors {
		normalized[strings.ToLower(mt)] = ex
	}
	return &Service{extractors: normalized}
}

// Supported returns the registered media types in sorted order.
func (s *Service) Supported() []string {
	out := make([]string, 0, len(s.extractors))
	for mt := range s.extractors {
		out = append(out, mt)
	}
	sort.Strings(out)
	return out
}

// ExtractText returns the text of data, declared as contentType.
//
// Parameters of contentType (such as "; charset=utf-8") are ignored. A media
// type with no registered extractor fails with entity.ErrUnsupportedContentType.
// A failing extractor is reported as entity.ErrExtractionFailed wrapping the
// extractor's error.
func (s *Service) ExtractText(ctx context.Context, contentType string, data []byte) (string, error) {
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
	mediaType := MediaType(contentType)

	ex, ok := s.extractors[mediaType]
	if !ok {
		// client-controlled value, kept out of metric labels
		metrics.RecordExtractionUnsupported("other")
		logger.Warn("unsupported document type",
			slog.String("content_type", contentType))
		return "", fmt.Errorf("%w: %q", entity.ErrUnsupportedContentType, mediaType)
	}

	start := time.Now()
	out, err := ex.Extract(ctx, data)
	if err != nil {
		metrics.RecordExtractionFailed(mediaType)
		logger.Warn("document extraction failed",
			slog.String("media_type", mediaType),
			slog.Int("size_bytes", len(data)),
			slog.Any("error", err))
		return "", fmt.Errorf("%w: %s: %w", entity.ErrExtractionFailed, mediaType, err)
	}

	size := text.CountRunes(out)
	metrics.RecordExtractionSuccess(mediaType, size)
	logger.Info("document extracted",
		slog.String("media_type", mediaType),
		slog.Int("size_bytes", len(data)),
		slog.Int("text_length", size),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

// MediaType returns the lower-cased media type of a Content-Type value without
// its parameters. Unparseable values are lower-cased and cut at the first ';'.
func MediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// MediaTypeForExtension maps a file extension (".pdf", "txt") to a built-in
// media type, or "" when the extension is unknown.
func MediaTypeForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt", "text", "md":
		return MediaTypePlainText
	case "pdf":
		return MediaTypePDF
	case "html", "htm":
		return MediaTypeHTML
	default:
		return ""
	}
}
