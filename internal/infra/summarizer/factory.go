package summarizer

import (
	"context"
	"log/slog"

	"context-summarizer/internal/config"
	"context-summarizer/internal/infra/llm"
	"context-summarizer/internal/usecase/summarize"
)

// New returns the summarizer selected by cfg.Summarizer. The noop provider
// yields an Extractive summarizer; every other provider a resilient LLM.
func New(ctx context.Context, cfg *config.LLMConfig, logger *slog.Logger) (summarize.Summarizer, error) {
	if cfg.Summarizer.Provider == config.ProviderNoop {
		return NewExtractive(), nil
	}

	completer, err := llm.New(ctx, cfg.Summarizer, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewLLM(completer, WithLogger(logger)), nil
}
