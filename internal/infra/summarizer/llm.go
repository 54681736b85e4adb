// Package summarizer provides Summarizer implementations for the chunked
// summarization engine: a model-backed summarizer that asks a language model for
// a summary within a word budget, and an extractive fallback that needs no model.
package summarizer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/infra/llm"
	"context-summarizer/internal/utils/text"
)

const systemPrompt = "You summarize documents. Reply with the summary only: plain prose, " +
	"no preamble, no headings, no bullet points. Do not add facts that are not in the text."

// LLM summarizes text with a language model.
type LLM struct {
	completer       llm.Completer
	metricsRecorder SummaryMetricsRecorder
	logger          *slog.Logger
}

// Option configures an LLM summarizer.
type Option func(*LLM)

// WithMetricsRecorder replaces the Prometheus recorder.
func WithMetricsRecorder(r SummaryMetricsRecorder) Option {
	return func(s *LLM) { s.metricsRecorder = r }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *LLM) { s.logger = l }
}

// NewLLM creates a model-backed summarizer over completer.
func NewLLM(completer llm.Completer, opts ...Option) *LLM {
	s := &LLM{
		completer:       completer,
		metricsRecorder: NewPrometheusSummaryMetrics(),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks the model for a summary of input of budget.MinWords to
// budget.MaxWords words. The budget is a request to the model; a longer reply
// is returned as is and counted as exceeding its budget.
func (s *LLM) Summarize(ctx context.Context, input string, budget entity.LengthBudget) (string, error) {
	if err := budget.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	summary, err := s.completer.Complete(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    buildPrompt(input, budget),
		MaxTokens: tokensFor(budget),
	})
	duration := time.Since(start)

	if err != nil {
		return "", err
	}

	stats := CallStats{
		Provider: s.completer.Name(),
		Words:    text.CountWords(summary),
		MaxWords: budget.MaxWords,
		Duration: duration,
	}
	s.metricsRecorder.RecordCall(stats)

	if !stats.WithinBudget() {
		s.logger.WarnContext(ctx, "summary exceeds word budget",
			slog.String("provider", stats.Provider),
			slog.Int("summary_words", stats.Words),
			slog.Int("max_words", budget.MaxWords),
			slog.Int("excess", stats.Words-budget.MaxWords))
	}

	return summary, nil
}

// Provider names the model backend.
func (s *LLM) Provider() string { return s.completer.Name() }

// BreakerOpen reports whether the completer's circuit breaker is rejecting calls.
func (s *LLM) BreakerOpen() bool {
	if b, ok := s.completer.(interface{ BreakerOpen() bool }); ok {
		return b.BreakerOpen()
	}
	return false
}

// Close releases the underlying model client, if it holds resources.
func (s *LLM) Close() error {
	if c, ok := s.completer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// buildPrompt constructs the summarization prompt for the given budget.
//
// Example output:
//
//	"Summarize the following text in 30 to 120 words.\n\nText:\n{text}"
func buildPrompt(input string, budget entity.LengthBudget) string {
	if budget.MaxWords == 1 {
		return fmt.Sprintf("Summarize the following text in a single word.\n\nText:\n%s", input)
	}
	return fmt.Sprintf("Summarize the following text in %d to %d words.\n\nText:\n%s",
		budget.MinWords, budget.MaxWords, input)
}

// tokensFor sizes the completion limit with headroom above the word budget,
// assuming roughly two tokens per word.
func tokensFor(budget entity.LengthBudget) int {
	return budget.MaxWords*2 + 64
}
