// Package config loads runtime configuration for the context-summarizer
// entrypoints. Values come from environment variables; an optional YAML file
// named by CONFIG_FILE fills in provider settings the environment leaves unset.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the complete runtime configuration of the API server.
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string

	// Version is reported by /health. Default: "dev"
	Version string

	// LogLevel is one of debug, info, warn, error. Default: "info"
	LogLevel string

	// MaxBodyBytes caps JSON request bodies. Default: 1 MiB
	MaxBodyBytes int64

	// MaxUploadBytes caps multipart uploads. Default: 20 MiB
	MaxUploadBytes int64

	// RequestTimeout bounds model-backed requests. Default: 5m
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration

	// RateLimitRequests per client IP within RateLimitWindow on model-backed
	// endpoints. 0 disables the limiter. Default: 60 per minute
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// TraceSampleRatio is the fraction of root spans sampled. Default: 1
	TraceSampleRatio float64
}

// Load reads the server and model configuration. When CONFIG_FILE is set the
// file's provider settings are applied beneath the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Server: LoadServerConfig(),
		LLM:    *llmConfigFromEnv(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		file.ApplyTo(&cfg.LLM)
	}

	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}

	return cfg, nil
}

// LoadServerConfig loads HTTP server settings from environment variables.
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              getEnvOrDefault("SERVER_ADDR", ":8080"),
		Version:           getEnvOrDefault("VERSION", "dev"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		MaxBodyBytes:      getEnvInt64("MAX_BODY_BYTES", 1<<20),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 20<<20),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 5*time.Minute),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		TraceSampleRatio:  getEnvFloat("TRACE_SAMPLE_RATIO", 1),
	}
}

// Validate checks configuration correctness.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("SERVER_ADDR cannot be empty")
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if c.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS cannot be negative")
	}

	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("TRACE_SAMPLE_RATIO must be between 0 and 1")
	}

	return nil
}
