package summarizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-summarizer/internal/config"
	"context-summarizer/internal/domain/entity"
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

type MockMetricsRecorder struct {
	Calls []CallStats
}

func (m *MockMetricsRecorder) RecordCall(c CallStats) { m.Calls = append(m.Calls, c) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLLM_Summarize(t *testing.T) {
	completer := &MockCompleter{CompleteFunc: func(ctx context.Context, req llm.Request) (string, error) {
		return "three word summary", nil
	}}
	recorder := &MockMetricsRecorder{}
	s := NewLLM(completer, WithMetricsRecorder(recorder), WithLogger(discardLogger()))

	out, err := s.Summarize(context.Background(), "some long text", entity.LengthBudget{MinWords: 30, MaxWords: 120})

	require.NoError(t, err)
	assert.Equal(t, "three word summary", out)

	require.Len(t, completer.Requests, 1)
	req := completer.Requests[0]
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, "Summarize the following text in 30 to 120 words.\n\nText:\nsome long text", req.Prompt)
	assert.Equal(t, 304, req.MaxTokens)
	assert.False(t, req.JSON)

	require.Len(t, recorder.Calls, 1)
	call := recorder.Calls[0]
	assert.Equal(t, "mock", call.Provider)
	assert.Equal(t, 3, call.Words)
	assert.Equal(t, 120, call.MaxWords)
	assert.True(t, call.WithinBudget())
}

func TestLLM_Summarize_ExceedsBudget(t *testing.T) {
	completer := &MockCompleter{CompleteFunc: func(ctx context.Context, req llm.Request) (string, error) {
		return "one two three four five six", nil
	}}
	recorder := &MockMetricsRecorder{}
	s := NewLLM(completer, WithMetricsRecorder(recorder), WithLogger(discardLogger()))

	out, err := s.Summarize(context.Background(), "text", entity.LengthBudget{MinWords: 1, MaxWords: 5})

	require.NoError(t, err)
	assert.Equal(t, "one two three four five six", out, "over-budget output is returned unchanged")
	require.Len(t, recorder.Calls, 1)
	assert.False(t, recorder.Calls[0].WithinBudget())
}

func TestLLM_Summarize_Error(t *testing.T) {
	upstream := errors.New("upstream timeout")
	completer := &MockCompleter{CompleteFunc: func(ctx context.Context, req llm.Request) (string, error) {
		return "", upstream
	}}
	recorder := &MockMetricsRecorder{}
	s := NewLLM(completer, WithMetricsRecorder(recorder), WithLogger(discardLogger()))

	_, err := s.Summarize(context.Background(), "text", entity.LengthBudget{MinWords: 1, MaxWords: 5})

	assert.ErrorIs(t, err, upstream)
	assert.Empty(t, recorder.Calls)
}

func TestLLM_Summarize_InvalidBudget(t *testing.T) {
	completer := &MockCompleter{CompleteFunc: func(ctx context.Context, req llm.Request) (string, error) {
		t.Fatal("model must not be called with an invalid budget")
		return "", nil
	}}
	s := NewLLM(completer, WithMetricsRecorder(&MockMetricsRecorder{}))

	_, err := s.Summarize(context.Background(), "text", entity.LengthBudget{MinWords: 5, MaxWords: 5})

	assert.True(t, entity.IsValidation(err))
}

func TestBuildPrompt_SingleWord(t *testing.T) {
	prompt := buildPrompt("x", entity.LengthBudget{MinWords: 1, MaxWords: 1})
	assert.True(t, strings.HasPrefix(prompt, "Summarize the following text in a single word."))
}

func TestExtractive_Summarize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		budget entity.LengthBudget
		want   string
	}{
		{
			name:   "stops once min words reached",
			input:  "First sentence here. Second one follows. Third is dropped.",
			budget: entity.LengthBudget{MinWords: 4, MaxWords: 10},
			want:   "First sentence here. Second one follows.",
		},
		{
			name:   "sentence that would exceed max is skipped",
			input:  "One two. Three four five six seven eight.",
			budget: entity.LengthBudget{MinWords: 3, MaxWords: 5},
			want:   "One two.",
		},
		{
			name:   "long first sentence is cut",
			input:  "a b c d e f g h i j",
			budget: entity.LengthBudget{MinWords: 2, MaxWords: 4},
			want:   "a b c d",
		},
		{
			name:   "whitespace normalized",
			input:  "  Hello\n\tworld!  Bye.",
			budget: entity.LengthBudget{MinWords: 1, MaxWords: 5},
			want:   "Hello world!",
		},
		{
			name:   "decimal point is not a sentence end",
			input:  "Pi is 3.14 roughly. Next.",
			budget: entity.LengthBudget{MinWords: 4, MaxWords: 10},
			want:   "Pi is 3.14 roughly.",
		},
		{
			name:   "single word budget",
			input:  "Summaries matter a lot.",
			budget: entity.LengthBudget{MinWords: 1, MaxWords: 1},
			want:   "Summaries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewExtractive().Summarize(context.Background(), tt.input, tt.budget)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractive_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractive().Summarize(ctx, "text", entity.LengthBudget{MinWords: 1, MaxWords: 2})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Noop(t *testing.T) {
	s, err := New(context.Background(), &config.LLMConfig{Summarizer: config.ProviderConfig{Provider: config.ProviderNoop}}, discardLogger())

	require.NoError(t, err)
	assert.IsType(t, &Extractive{}, s)
}

func TestNew_Provider(t *testing.T) {
	cfg := &config.LLMConfig{
		Summarizer: config.ProviderConfig{Provider: config.ProviderOpenAI},
		OpenAI:     config.OpenAIConfig{APIKey: "sk-test"},
		Timeout:    time.Second,
		Retry:      config.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5,
		},
	}

	s, err := New(context.Background(), cfg, discardLogger())

	require.NoError(t, err)
	require.IsType(t, &LLM{}, s)
	assert.Equal(t, "openai", s.(*LLM).completer.Name())
}

func TestProviderStatus(t *testing.T) {
	e := NewExtractive()
	assert.Equal(t, "extractive", e.Provider())
	assert.False(t, e.BreakerOpen())

	s := NewLLM(&MockCompleter{}, WithMetricsRecorder(&MockMetricsRecorder{}))
	assert.Equal(t, "mock", s.Provider())
	assert.False(t, s.BreakerOpen(), "plain completer has no breaker")
}
