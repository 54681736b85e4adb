package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"context-summarizer/internal/observability/metrics"
	"context-summarizer/internal/resilience/circuitbreaker"
	"context-summarizer/internal/resilience/retry"
)

// ResilienceConfig configures the Resilient decorator.
type ResilienceConfig struct {
	// Timeout bounds one Complete call including every retry. Zero disables it.
	Timeout time.Duration

	Retry          retry.Policy
	CircuitBreaker circuitbreaker.Config

	// RPS and Burst configure a token bucket in front of the provider.
	// RPS <= 0 disables throttling.
	RPS   float64
	Burst int
}

// Resilient wraps a Completer with a timeout, outbound throttling, retry with
// exponential backoff and a circuit breaker.
type Resilient struct {
	next    Completer
	cfg     ResilienceConfig
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewResilient decorates next. A nil logger uses slog.Default.
func NewResilient(next Completer, cfg ResilienceConfig, logger *slog.Logger) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.CircuitBreaker.Name == "" {
		cfg.CircuitBreaker = circuitbreaker.ForProvider(next.Name())
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), max(cfg.Burst, 1))
	}

	return &Resilient{
		next: next,
		cfg:  cfg,
		breaker: circuitbreaker.New(cfg.CircuitBreaker,
			circuitbreaker.WithLogger(logger),
			circuitbreaker.OnStateChange(func(_ string, _, to gobreaker.State) {
				metrics.RecordBreakerState(next.Name(), to.String())
			})),
		limiter: limiter,
		logger:  logger,
	}
}

// Name implements Completer.
func (r *Resilient) Name() string { return r.next.Name() }

// BreakerOpen reports whether calls are currently being rejected.
func (r *Resilient) BreakerOpen() bool { return r.breaker.IsOpen() }

// Close releases the wrapped adapter's resources, if it holds any.
func (r *Resilient) Close() error {
	if c, ok := r.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Complete implements Completer.
func (r *Resilient) Complete(ctx context.Context, req Request) (string, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	logger := r.logger.With(
		slog.String("call_id", uuid.New().String()),
		slog.String("provider", r.next.Name()))
	start := time.Now()
	attempts := 0

	result, err := retry.Do(ctx, r.cfg.Retry, logger, func(ctx context.Context, attempt int) (string, error) {
		attempts = attempt

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		out, err := circuitbreaker.Do(r.breaker, func() (string, error) {
			return r.next.Complete(ctx, req)
		})
		switch {
		case errors.Is(err, circuitbreaker.ErrOpen):
			logger.WarnContext(ctx, "llm circuit breaker open, request rejected",
				slog.String("circuit", r.breaker.Name()),
				slog.String("state", r.breaker.State().String()))
			return "", fmt.Errorf("%s api unavailable: %w", r.next.Name(), err)
		case err != nil:
			logger.DebugContext(ctx, "llm call failed",
				slog.Int("attempt", attempt),
				slog.Bool("retryable", retry.Retryable(err)),
				slog.String("error", err.Error()))
			return "", err
		}
		return out, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.WarnContext(ctx, "llm call failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", err
	}

	logger.DebugContext(ctx, "llm call completed",
		slog.Int("attempts", attempts),
		slog.Int("output_chars", len(result)),
		slog.Duration("duration", duration))

	return result, nil
}
