package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Supported model providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderNoop   = "noop"
)

// Providers lists every accepted value of LLM_PROVIDER and QA_PROVIDER.
var Providers = []string{ProviderOpenAI, ProviderClaude, ProviderOllama, ProviderGemini, ProviderNoop}

// LLMConfig holds configuration for the summarization and question-answering
// model backends.
type LLMConfig struct {
	// Summarizer selects the backend used for chunk and recombination summaries.
	// Default: noop
	Summarizer ProviderConfig

	// Answerer selects the backend used by /generate and the ask command.
	// Defaults to the summarizer provider.
	Answerer ProviderConfig

	// Credentials for the hosted providers.
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Ollama    OllamaConfig
	Gemini    GeminiConfig

	// Timeout bounds a single model call, retries included. Default: 60s
	Timeout time.Duration

	// MaxTokens caps the completion length of one call. Default: 1024
	MaxTokens int

	// Retry configures the exponential backoff of failed calls.
	Retry RetryConfig

	// CircuitBreaker for model API calls.
	CircuitBreaker CircuitBreakerConfig

	// RateLimit throttles outbound calls per provider.
	RateLimit RateLimitConfig
}

// ProviderConfig names a backend and, optionally, the model it should use.
// An empty Model selects the provider's default.
type ProviderConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// OpenAIConfig holds OpenAI credentials.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// AnthropicConfig holds Anthropic credentials.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
}

// OllamaConfig holds the address of the local Ollama server.
type OllamaConfig struct {
	Host string
}

// GeminiConfig holds Google AI Studio credentials.
type GeminiConfig struct {
	APIKey string
}

// RetryConfig maps onto retry.Policy for model calls.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// CircuitBreakerConfig for model API resilience.
type CircuitBreakerConfig struct {
	// MaxRequests in half-open state.
	MaxRequests uint32

	// Interval for clearing failure counts.
	Interval time.Duration

	// Timeout before transitioning from open to half-open.
	Timeout time.Duration

	// FailureThreshold ratio to trip circuit (0.0 to 1.0).
	FailureThreshold float64

	// MinRequests before calculating failure ratio.
	MinRequests uint32
}

// RateLimitConfig is a token bucket: RPS tokens per second, Burst capacity.
// RPS <= 0 disables throttling.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LoadLLMConfig loads model configuration from environment variables.
// Returns a config with defaults if environment variables are not set.
func LoadLLMConfig() (*LLMConfig, error) {
	cfg := llmConfigFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}

	return cfg, nil
}

func llmConfigFromEnv() *LLMConfig {
	summarizer := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderNoop))

	return &LLMConfig{
		Summarizer: ProviderConfig{
			Provider: summarizer,
			Model:    os.Getenv("LLM_MODEL"),
		},
		Answerer: ProviderConfig{
			Provider: strings.ToLower(getEnvOrDefault("QA_PROVIDER", summarizer)),
			Model:    getEnvOrDefault("QA_MODEL", os.Getenv("LLM_MODEL")),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Anthropic: AnthropicConfig{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		},
		Ollama: OllamaConfig{
			Host: getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Timeout:   getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		MaxTokens: getEnvInt("LLM_MAX_TOKENS", 1024),
		Retry: RetryConfig{
			MaxAttempts:  getEnvInt("LLM_RETRY_MAX_ATTEMPTS", 3),
			InitialDelay: getEnvDuration("LLM_RETRY_INITIAL_DELAY", 2*time.Second),
			MaxDelay:     getEnvDuration("LLM_RETRY_MAX_DELAY", 30*time.Second),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      uint32(getEnvInt("LLM_CB_MAX_REQUESTS", 3)),
			Interval:         getEnvDuration("LLM_CB_INTERVAL", time.Minute),
			Timeout:          getEnvDuration("LLM_CB_TIMEOUT", 30*time.Second),
			FailureThreshold: getEnvFloat("LLM_CB_FAILURE_THRESHOLD", 0.6),
			MinRequests:      uint32(getEnvInt("LLM_CB_MIN_REQUESTS", 5)),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("LLM_RATE_LIMIT_RPS", 5),
			Burst: getEnvInt("LLM_RATE_LIMIT_BURST", 5),
		},
	}
}

// Validate checks configuration correctness.
func (c *LLMConfig) Validate() error {
	if err := c.validateProvider("LLM_PROVIDER", c.Summarizer.Provider); err != nil {
		return err
	}

	if err := c.validateProvider("QA_PROVIDER", c.Answerer.Provider); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}

	if c.Retry.MaxAttempts < 1 || c.Retry.MaxAttempts > 10 {
		return fmt.Errorf("LLM_RETRY_MAX_ATTEMPTS must be between 1 and 10")
	}

	if c.Retry.InitialDelay <= 0 || c.Retry.MaxDelay < c.Retry.InitialDelay {
		return fmt.Errorf("LLM_RETRY_INITIAL_DELAY must be positive and not exceed LLM_RETRY_MAX_DELAY")
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("LLM_CB_MAX_REQUESTS must be positive")
	}

	if c.CircuitBreaker.Interval <= 0 {
		return fmt.Errorf("LLM_CB_INTERVAL must be positive")
	}

	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("LLM_CB_TIMEOUT must be positive")
	}

	if c.CircuitBreaker.FailureThreshold <= 0 || c.CircuitBreaker.FailureThreshold > 1 {
		return fmt.Errorf("LLM_CB_FAILURE_THRESHOLD must be between 0.0 and 1.0")
	}

	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("LLM_RATE_LIMIT_BURST must be positive when LLM_RATE_LIMIT_RPS is set")
	}

	return nil
}

// validateProvider checks the provider name and that its credentials are present.
func (c *LLMConfig) validateProvider(envKey, provider string) error {
	if !slices.Contains(Providers, provider) {
		return fmt.Errorf("%s must be one of %s, got %q", envKey, strings.Join(Providers, ", "), provider)
	}

	switch provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when %s=%s", envKey, provider)
		}
	case ProviderClaude:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when %s=%s", envKey, provider)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when %s=%s", envKey, provider)
		}
	case ProviderOllama:
		if c.Ollama.Host == "" {
			return fmt.Errorf("OLLAMA_HOST cannot be empty when %s=%s", envKey, provider)
		}
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt64 parses a 64-bit integer environment variable with default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses float environment variable with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
