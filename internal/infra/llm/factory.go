package llm

import (
	"context"
	"fmt"
	"log/slog"

	"context-summarizer/internal/config"
	"context-summarizer/internal/resilience/circuitbreaker"
	"context-summarizer/internal/resilience/retry"
)

// New builds the adapter named by pc and wraps it in Resilient using the
// timeout, retry, breaker and rate limit settings of cfg.
// The noop provider has no adapter and is rejected.
func New(ctx context.Context, pc config.ProviderConfig, cfg *config.LLMConfig, logger *slog.Logger) (*Resilient, error) {
	adapter, err := newAdapter(ctx, pc, cfg)
	if err != nil {
		return nil, err
	}
	return NewResilient(adapter, ResilienceFromConfig(adapter.Name(), cfg), logger), nil
}

func newAdapter(ctx context.Context, pc config.ProviderConfig, cfg *config.LLMConfig) (Completer, error) {
	switch pc.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:    cfg.OpenAI.APIKey,
			BaseURL:   cfg.OpenAI.BaseURL,
			Model:     pc.Model,
			MaxTokens: cfg.MaxTokens,
		}), nil
	case config.ProviderClaude:
		return NewClaude(ClaudeConfig{
			APIKey:    cfg.Anthropic.APIKey,
			BaseURL:   cfg.Anthropic.BaseURL,
			Model:     pc.Model,
			MaxTokens: cfg.MaxTokens,
		}), nil
	case config.ProviderOllama:
		return NewOllama(OllamaConfig{
			Host:      cfg.Ollama.Host,
			Model:     pc.Model,
			MaxTokens: cfg.MaxTokens,
		})
	case config.ProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			APIKey:    cfg.Gemini.APIKey,
			Model:     pc.Model,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("no model adapter for provider %q", pc.Provider)
	}
}

// ResilienceFromConfig maps the LLM settings onto a ResilienceConfig for provider.
func ResilienceFromConfig(provider string, cfg *config.LLMConfig) ResilienceConfig {
	retryCfg := retry.ModelCallPolicy()
	retryCfg.MaxAttempts = cfg.Retry.MaxAttempts
	retryCfg.InitialDelay = cfg.Retry.InitialDelay
	retryCfg.MaxDelay = cfg.Retry.MaxDelay

	cbCfg := circuitbreaker.ForProvider(provider)
	cbCfg.MaxRequests = cfg.CircuitBreaker.MaxRequests
	cbCfg.Interval = cfg.CircuitBreaker.Interval
	cbCfg.Timeout = cfg.CircuitBreaker.Timeout
	cbCfg.FailureThreshold = cfg.CircuitBreaker.FailureThreshold
	cbCfg.MinRequests = cfg.CircuitBreaker.MinRequests

	return ResilienceConfig{
		Timeout:        cfg.Timeout,
		Retry:          retryCfg,
		CircuitBreaker: cbCfg,
		RPS:            cfg.RateLimit.RPS,
		Burst:          cfg.RateLimit.Burst,
	}
}
