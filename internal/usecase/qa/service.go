// Package qa implements question answering over a caller-supplied context.
//
// A free-form prompt is parsed into a (context, question) pair which is then
// forwarded to an Answerer.
package qa

import (
	"context"
	"log/slog"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/observability/logging"
	"context-summarizer/internal/observability/metrics"
	"context-summarizer/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Answerer answers a question from a context passage.
// An Answerer that produced no answer returns entity.NoAnswer() and a nil error.
type Answerer interface {
	Answer(ctx context.Context, question, passage string) (entity.Answer, error)
}

// Service provides the question answering use case.
type Service struct {
	answerer Answerer
	tracer   trace.Tracer
}

// NewService creates a QA Service backed by the given Answerer.
func NewService(answerer Answerer) *Service {
	return &Service{answerer: answerer, tracer: tracing.GetTracer()}
}

// AnswerQuestion parses prompt and answers the question it contains.
// A malformed prompt yields a *entity.ValidationError before the Answerer is
// called; an Answerer failure yields a *entity.ServiceError prefixed "Model".
// A NoAnswer result is returned as the empty string.
func (s *Service) AnswerQuestion(ctx context.Context, prompt string) (string, error) {
	p, err := ParsePrompt(prompt)
	if err != nil {
		return "", err
	}
	return s.Answer(ctx, p)
}

// Answer answers an already parsed prompt.
func (s *Service) Answer(ctx context.Context, p Prompt) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	ctx, span := s.tracer.Start(ctx, "qa.answer", trace.WithAttributes(
		attribute.Int("qa.context_chars", len([]rune(p.Context))),
		attribute.Int("qa.question_chars", len([]rune(p.Question))),
	))
	defer span.End()

	answer, err := s.answerer.Answer(ctx, p.Question, p.Context)
	if err != nil {
		metrics.RecordQuestionAnswered(metrics.ResultFailure)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("question answering failed", slog.Any("error", err))
		return "", entity.NewServiceError(entity.OpModel, err)
	}

	if !answer.Found() {
		metrics.RecordQuestionAnswered(metrics.ResultNoAnswer)
		logger.Info("question answering returned no answer")
		return "", nil
	}

	metrics.RecordQuestionAnswered(metrics.ResultAnswered)
	span.SetAttributes(attribute.Int("qa.answer_chars", len([]rune(answer.Text()))))
	logger.Info("question answered", slog.Int("answer_length", len([]rune(answer.Text()))))
	return answer.Text(), nil
}
