package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file.
//
//	llm:
//	  summarizer:
//	    provider: claude
//	    model: claude-sonnet-4-5
//	  answerer:
//	    provider: openai
//	  timeout: 90s
//	  max_tokens: 2048
type FileConfig struct {
	LLM struct {
		Summarizer ProviderConfig `yaml:"summarizer"`
		Answerer   ProviderConfig `yaml:"answerer"`
		Timeout    time.Duration  `yaml:"timeout"`
		MaxTokens  int            `yaml:"max_tokens"`
	} `yaml:"llm"`
}

// LoadFile loads configuration from a YAML file.
// The path parameter is expected to come from a trusted source (environment or command-line flag).
func LoadFile(path string) (*FileConfig, error) {
	// #nosec G304 -- path is provided by the operator, not request input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateFileConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validateFileConfig validates the loaded file.
func validateFileConfig(cfg *FileConfig) error {
	if cfg.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout cannot be negative")
	}

	if cfg.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens cannot be negative")
	}

	return nil
}

// ApplyTo copies file values into cfg for every setting whose environment
// variable is unset.
func (f *FileConfig) ApplyTo(cfg *LLMConfig) {
	if os.Getenv("LLM_PROVIDER") == "" && f.LLM.Summarizer.Provider != "" {
		cfg.Summarizer.Provider = strings.ToLower(f.LLM.Summarizer.Provider)
		if os.Getenv("QA_PROVIDER") == "" {
			cfg.Answerer.Provider = cfg.Summarizer.Provider
		}
	}
	if os.Getenv("LLM_MODEL") == "" && f.LLM.Summarizer.Model != "" {
		cfg.Summarizer.Model = f.LLM.Summarizer.Model
		if os.Getenv("QA_MODEL") == "" {
			cfg.Answerer.Model = cfg.Summarizer.Model
		}
	}
	if os.Getenv("QA_PROVIDER") == "" && f.LLM.Answerer.Provider != "" {
		cfg.Answerer.Provider = strings.ToLower(f.LLM.Answerer.Provider)
	}
	if os.Getenv("QA_MODEL") == "" && f.LLM.Answerer.Model != "" {
		cfg.Answerer.Model = f.LLM.Answerer.Model
	}
	if os.Getenv("LLM_TIMEOUT") == "" && f.LLM.Timeout > 0 {
		cfg.Timeout = f.LLM.Timeout
	}
	if os.Getenv("LLM_MAX_TOKENS") == "" && f.LLM.MaxTokens > 0 {
		cfg.MaxTokens = f.LLM.MaxTokens
	}
}
