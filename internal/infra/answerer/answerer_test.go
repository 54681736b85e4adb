package answerer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-summarizer/internal/config"
	"context-summarizer/internal/infra/llm"
)

type MockCompleter struct {
	CompleteFunc func(ctx context.Context, req llm.Request) (string, error)
	Requests     []llm.Request
}

func (m *MockCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.Requests = append(m.Requests, req)
	return m.CompleteFunc(ctx, req)
}

func (m *MockCompleter) Name() string { return "mock" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replying(reply string) *MockCompleter {
	return &MockCompleter{CompleteFunc: func(ctx context.Context, req llm.Request) (string, error) {
		return reply, nil
	}}
}

func TestLLM_Answer_Request(t *testing.T) {
	completer := replying(`{"answer": "Paris"}`)
	a := NewLLM(completer, discardLogger())

	answer, err := a.Answer(context.Background(), "What is the capital of France?", "Paris is the capital of France.")

	require.NoError(t, err)
	assert.True(t, answer.Found())
	assert.Equal(t, "Paris", answer.Text())

	require.Len(t, completer.Requests, 1)
	req := completer.Requests[0]
	assert.True(t, req.JSON)
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, "Context:\nParis is the capital of France.\n\nQuestion:\nWhat is the capital of France?", req.Prompt)
}

func TestLLM_Answer_Replies(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantFound bool
		wantText  string
	}{
		{"plain object", `{"answer": "42"}`, true, "42"},
		{"trimmed", `{"answer": "  blue  "}`, true, "blue"},
		{"numeric answer", `{"answer": 1889}`, true, "1889"},
		{"code fence", "```json\n{\"answer\": \"Tokyo\"}\n```", true, "Tokyo"},
		{"surrounding prose", `Sure! {"answer": "yes"} Hope that helps.`, true, "yes"},
		{"null answer", `{"answer": null}`, false, ""},
		{"blank answer", `{"answer": "   "}`, false, ""},
		{"missing field", `{"result": "Paris"}`, false, ""},
		{"not json", "Paris", false, ""},
		{"broken json", `{"answer": "Par`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewLLM(replying(tt.reply), discardLogger())

			answer, err := a.Answer(context.Background(), "q", "c")

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, answer.Found())
			assert.Equal(t, tt.wantText, answer.Text())
		})
	}
}

func TestLLM_Answer_Error(t *testing.T) {
	upstream := errors.New("connection refused")
	a := NewLLM(&MockCompleter{CompleteFunc: func(ctx context.Context, req llm.Request) (string, error) {
		return "", upstream
	}}, discardLogger())

	answer, err := a.Answer(context.Background(), "q", "c")

	assert.ErrorIs(t, err, upstream)
	assert.False(t, answer.Found())
}

func TestNoop_Answer(t *testing.T) {
	answer, err := NewNoop().Answer(context.Background(), "q", "c")

	require.NoError(t, err)
	assert.False(t, answer.Found())
	assert.Equal(t, "", answer.Text())
}

func TestNew(t *testing.T) {
	t.Run("noop", func(t *testing.T) {
		a, err := New(context.Background(), &config.LLMConfig{Answerer: config.ProviderConfig{Provider: config.ProviderNoop}}, discardLogger())
		require.NoError(t, err)
		assert.IsType(t, &Noop{}, a)
	})

	t.Run("claude", func(t *testing.T) {
		cfg := &config.LLMConfig{
			Answerer:  config.ProviderConfig{Provider: config.ProviderClaude},
			Anthropic: config.AnthropicConfig{APIKey: "sk-ant-test"},
			Timeout:   time.Second,
			Retry:     config.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5,
			},
		}

		a, err := New(context.Background(), cfg, discardLogger())
		require.NoError(t, err)
		require.IsType(t, &LLM{}, a)
		assert.Equal(t, "claude", a.(*LLM).completer.Name())
	})
}

func TestProviderStatus(t *testing.T) {
	n := NewNoop()
	assert.Equal(t, "noop", n.Provider())
	assert.False(t, n.BreakerOpen())

	a := NewLLM(replying("{}"), discardLogger())
	assert.Equal(t, "mock", a.Provider())
	assert.False(t, a.BreakerOpen())
}
