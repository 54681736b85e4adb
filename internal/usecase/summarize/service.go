// Package summarize implements the chunk-summarize-recombine pipeline.
//
// A source text is split into overlapping, sentence-aligned chunks; each chunk
// is summarized with a length budget proportional to its word count; when there
// is more than one chunk the partial summaries are joined and summarized once
// more into the final result.
package summarize

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/observability/logging"
	"context-summarizer/internal/observability/metrics"
	"context-summarizer/internal/observability/tracing"
	"context-summarizer/internal/utils/text"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Summarizer is an interface for length-bounded text summarization.
// Model-backed implementations request greedy decoding (temperature 0) so a
// given input and budget yields a stable summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string, budget entity.LengthBudget) (string, error)
}

// Service provides the summarization use case.
type Service struct {
	summarizer Summarizer
	splitter   Splitter
	tracer     trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithSplitter overrides the default 1024/100 character splitter.
func WithSplitter(sp Splitter) Option {
	return func(s *Service) {
		s.splitter = sp
	}
}

// WithTracer overrides the application tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// NewService creates a summarization Service backed by the given Summarizer.
func NewService(summarizer Summarizer, opts ...Option) *Service {
	s := &Service{
		summarizer: summarizer,
		splitter:   DefaultSplitter(),
		tracer:     tracing.GetTracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SummarizeText produces a single summary of src.
//
// src is stripped of surrounding whitespace before splitting, so chunk offsets
// are relative to the stripped text. Whitespace-only text is rejected with a
// *entity.ValidationError. A text that yields one chunk returns that chunk's
// summary unchanged; otherwise the partial summaries are joined with single spaces and summarized again with
// entity.RecombinationBudget(). Any summarizer failure aborts the whole request
// and is returned as a *entity.ServiceError; partial results are discarded.
func (s *Service) SummarizeText(ctx context.Context, src string) (string, error) {
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
	start := time.Now()

	src = strings.TrimSpace(src)
	if src == "" {
		return "", &entity.ValidationError{Field: "text", Message: "Text cannot be empty."}
	}

	ctx, span := s.tracer.Start(ctx, "summarize.text")
	defer span.End()

	chunks := s.splitter.Split(src)
	metrics.RecordChunkCount(len(chunks))
	span.SetAttributes(
		attribute.Int("summarize.text_chars", text.CountRunes(src)),
		attribute.Int("summarize.chunks", len(chunks)),
	)

	logger.Info("summarization started",
		slog.Int("text_length", text.CountRunes(src)),
		slog.Int("chunk_count", len(chunks)))

	summary, err := s.summarizeChunks(ctx, chunks)
	duration := time.Since(start)
	metrics.RecordDocumentSummarized(err == nil, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("summarization failed",
			slog.Int("chunk_count", len(chunks)),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", entity.NewServiceError(entity.OpSummarization, err)
	}

	logger.Info("summarization completed",
		slog.Int("chunk_count", len(chunks)),
		slog.Bool("recombined", len(chunks) > 1),
		slog.Int("summary_length", text.CountRunes(summary)),
		slog.Duration("duration", duration))

	return summary, nil
}

// summarizeChunks summarizes every chunk in order and recombines the partials.
// Chunks are processed sequentially so partial order matches chunk order.
func (s *Service) summarizeChunks(ctx context.Context, chunks []entity.Chunk) (string, error) {
	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		budget := BudgetFor(chunk.WordCount())
		partial, err := s.summarizeOne(ctx, metrics.StageChunk, i, chunk.Text, budget)
		if err != nil {
			return "", err
		}
		partials = append(partials, partial)
	}

	switch len(partials) {
	case 0:
		// Only reachable when the splitter drops every chunk as blank.
		return "", nil
	case 1:
		return partials[0], nil
	}

	return s.summarizeOne(ctx, metrics.StageRecombine, len(partials),
		strings.Join(partials, " "), entity.RecombinationBudget())
}

func (s *Service) summarizeOne(ctx context.Context, stage string, index int, input string, budget entity.LengthBudget) (string, error) {
	ctx, span := s.tracer.Start(ctx, "summarize."+stage, trace.WithAttributes(
		attribute.Int("summarize.index", index),
		attribute.Int("summarize.min_words", budget.MinWords),
		attribute.Int("summarize.max_words", budget.MaxWords),
	))
	defer span.End()

	start := time.Now()
	out, err := s.summarizer.Summarize(ctx, input, budget)
	metrics.RecordChunkSummarized(stage, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).Warn("summarizer call failed",
			slog.String("stage", stage),
			slog.Int("index", index),
			slog.String("budget", budget.String()),
			slog.Any("error", err))
		return "", err
	}

	logging.FromContext(ctx).Debug("summarizer call completed",
		slog.String("stage", stage),
		slog.Int("index", index),
		slog.String("budget", budget.String()),
		slog.Int("output_words", text.CountWords(out)))
	return out, nil
}
