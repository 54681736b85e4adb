// Package app wires the configured model providers, extractors and use cases
// into the services shared by the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"context-summarizer/internal/config"
	"context-summarizer/internal/infra/answerer"
	"context-summarizer/internal/infra/extractor"
	"context-summarizer/internal/infra/summarizer"
	"context-summarizer/internal/usecase/extract"
	"context-summarizer/internal/usecase/qa"
	"context-summarizer/internal/usecase/summarize"
)

// Services holds the use cases and the provider-backed components behind them.
type Services struct {
	Summarize *summarize.Service
	QA        *qa.Service
	Extract   *extract.Service

	// Summarizer and Answerer are the provider adapters, kept for health
	// reporting and cleanup.
	Summarizer summarize.Summarizer
	Answerer   qa.Answerer
}

// Build creates the services selected by cfg.
func Build(ctx context.Context, cfg *config.LLMConfig, logger *slog.Logger) (*Services, error) {
	sum, err := summarizer.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	ans, err := answerer.New(ctx, cfg, logger)
	if err != nil {
		closeQuietly(sum)
		return nil, fmt.Errorf("create answerer: %w", err)
	}

	logger.Info("model providers configured",
		slog.String("summarizer", cfg.Summarizer.Provider),
		slog.String("summarizer_model", cfg.Summarizer.Model),
		slog.String("answerer", cfg.Answerer.Provider),
		slog.String("answerer_model", cfg.Answerer.Model))

	return &Services{
		Summarize:  summarize.NewService(sum),
		QA:         qa.NewService(ans),
		Extract:    extract.NewService(extractor.Registry()),
		Summarizer: sum,
		Answerer:   ans,
	}, nil
}

// Close releases provider clients that hold resources.
func (s *Services) Close() error {
	var errs []error
	for _, c := range []any{s.Summarizer, s.Answerer} {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func closeQuietly(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
