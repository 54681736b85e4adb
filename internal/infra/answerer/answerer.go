// Package answerer provides Answerer implementations for the question
// answering use case: a model-backed answerer that requests a JSON object with
// an "answer" field, and a noop answerer that never finds an answer.
package answerer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"context-summarizer/internal/config"
	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/infra/llm"
	"context-summarizer/internal/usecase/qa"
)

const systemPrompt = `You answer questions using only the supplied context. ` +
	`Reply with a JSON object of the form {"answer": "<short answer>"}. ` +
	`If the context does not contain the answer, reply with {"answer": null}.`

// answerField is the gjson path of the answer in the model reply.
const answerField = "answer"

// LLM answers questions with a language model.
type LLM struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewLLM creates a model-backed answerer. A nil logger uses slog.Default.
func NewLLM(completer llm.Completer, logger *slog.Logger) *LLM {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLM{completer: completer, logger: logger}
}

// Answer implements qa.Answerer. A reply without a usable "answer" field
// yields entity.NoAnswer().
func (a *LLM) Answer(ctx context.Context, question, passage string) (entity.Answer, error) {
	reply, err := a.completer.Complete(ctx, llm.Request{
		System: systemPrompt,
		Prompt: fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", passage, question),
		JSON:   true,
	})
	if err != nil {
		return entity.NoAnswer(), err
	}

	answer, ok := parseAnswer(reply)
	if !ok {
		a.logger.WarnContext(ctx, "model reply has no answer field",
			slog.String("provider", a.completer.Name()),
			slog.Int("reply_length", len(reply)))
		return entity.NoAnswer(), nil
	}
	return answer, nil
}

// Provider names the model backend.
func (a *LLM) Provider() string { return a.completer.Name() }

// BreakerOpen reports whether the completer's circuit breaker is rejecting calls.
func (a *LLM) BreakerOpen() bool {
	if b, ok := a.completer.(interface{ BreakerOpen() bool }); ok {
		return b.BreakerOpen()
	}
	return false
}

// Close releases the underlying model client, if it holds resources.
func (a *LLM) Close() error {
	if c, ok := a.completer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// parseAnswer extracts the answer field from a model reply. The reply may wrap
// the JSON object in prose or a code fence. ok is false when no JSON object is
// found at all; an object whose answer is missing, null or blank is NoAnswer.
func parseAnswer(reply string) (entity.Answer, bool) {
	doc := jsonObject(reply)
	if doc == "" {
		return entity.NoAnswer(), false
	}

	field := gjson.Get(doc, answerField)
	if !field.Exists() || field.Type == gjson.Null {
		return entity.NoAnswer(), true
	}

	text := strings.TrimSpace(field.String())
	if text == "" {
		return entity.NoAnswer(), true
	}
	return entity.StructuredAnswer(text), true
}

// jsonObject returns the outermost {...} span of s if it is valid JSON.
func jsonObject(s string) string {
	s = strings.TrimSpace(s)
	if gjson.Valid(s) && strings.HasPrefix(s, "{") {
		return s
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}

	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return ""
	}
	return candidate
}

// Noop is an answerer that never finds an answer.
// It is the default when no provider is configured.
type Noop struct{}

// NewNoop creates a new Noop answerer.
func NewNoop() *Noop {
	return &Noop{}
}

// Provider returns "noop".
func (n *Noop) Provider() string { return config.ProviderNoop }

// BreakerOpen always returns false.
func (n *Noop) BreakerOpen() bool { return false }

// Answer implements qa.Answerer.
func (n *Noop) Answer(ctx context.Context, _, _ string) (entity.Answer, error) {
	return entity.NoAnswer(), ctx.Err()
}

// New returns the answerer selected by cfg.Answerer.
func New(ctx context.Context, cfg *config.LLMConfig, logger *slog.Logger) (qa.Answerer, error) {
	if cfg.Answerer.Provider == config.ProviderNoop {
		return NewNoop(), nil
	}

	completer, err := llm.New(ctx, cfg.Answerer, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewLLM(completer, logger), nil
}
