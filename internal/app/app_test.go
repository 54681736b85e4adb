package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-summarizer/internal/config"
	"context-summarizer/internal/infra/answerer"
	"context-summarizer/internal/infra/summarizer"
)

func TestBuild_Noop(t *testing.T) {
	cfg := &config.LLMConfig{
		Summarizer: config.ProviderConfig{Provider: config.ProviderNoop},
		Answerer:   config.ProviderConfig{Provider: config.ProviderNoop},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := Build(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	assert.IsType(t, &summarizer.Extractive{}, svc.Summarizer)
	assert.IsType(t, &answerer.Noop{}, svc.Answerer)
	assert.Equal(t, []string{"application/pdf", "text/html", "text/plain"}, svc.Extract.Supported())

	summary, err := svc.Summarize.SummarizeText(context.Background(), "First sentence. Second sentence.")
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	answer, err := svc.QA.AnswerQuestion(context.Background(), "Context: The sky is blue.\nQuestion: What color?")
	require.NoError(t, err)
	assert.Empty(t, answer)
}
