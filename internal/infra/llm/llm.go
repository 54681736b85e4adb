// Package llm adapts hosted and local language model APIs (OpenAI, Anthropic
// Claude, Ollama, Google Gemini) to a single prompt-in, text-out Completer.
//
// Provider adapters make exactly one API call per Complete, sampling at
// temperature 0, and translate SDK
// errors into *retry.StatusError so that the Resilient decorator can classify them.
// Retry, circuit breaking, throttling and per-call timeouts live in Resilient.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"context-summarizer/internal/resilience/retry"
)

// Request is a single completion request.
type Request struct {
	// System is the instruction preamble. Optional.
	System string

	// Prompt is the user message.
	Prompt string

	// MaxTokens caps the completion length. Zero uses the adapter default.
	MaxTokens int

	// JSON asks the provider to emit a single JSON object.
	JSON bool
}

// Completer turns a prompt into model output text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// defaultMaxTokens is used when neither the request nor the adapter sets a limit.
const defaultMaxTokens = 1024

// temperature is the sampling temperature sent to every provider. Zero selects
// greedy decoding.
const temperature = 0

func maxTokens(req Request, fallback int) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if fallback > 0 {
		return fallback
	}
	return defaultMaxTokens
}

// apiError converts a provider status code into a *retry.StatusError, keeping the
// provider name in the message. Status 0 means the code is unknown and the
// original error is returned wrapped instead.
func apiError(provider string, status int, retryAfter time.Duration, err error) error {
	if status == 0 {
		return fmt.Errorf("%s api error: %w", provider, err)
	}
	return &retry.StatusError{
		StatusCode: status,
		Message:    fmt.Sprintf("%s api error: %s", provider, strings.TrimSpace(err.Error())),
		RetryAfter: retryAfter,
	}
}
