package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// DefaultOllamaModel is used when no model is configured.
const DefaultOllamaModel = "llama3.2"

// OllamaConfig holds parameters for the Ollama adapter.
type OllamaConfig struct {
	// Host is the server URL, e.g. "http://localhost:11434".
	Host      string
	Model     string
	MaxTokens int

	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client
}

// Ollama implements Completer against a local Ollama server.
type Ollama struct {
	client    *ollama.Client
	model     string
	maxTokens int
}

// NewOllama creates an Ollama adapter.
func NewOllama(cfg OllamaConfig) (*Ollama, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q", cfg.Host)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}

	return &Ollama{
		client:    ollama.NewClient(u, httpClient),
		model:     model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name implements Completer.
func (o *Ollama) Name() string { return "ollama" }

// Complete implements Completer.
func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	stream := false
	genReq := &ollama.GenerateRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: &stream,
		Options: map[string]any{
			"num_predict": maxTokens(req, o.maxTokens),
			"temperature": temperature,
		},
	}
	if req.JSON {
		genReq.Format = json.RawMessage(`"json"`)
	}

	var out strings.Builder
	err := o.client.Generate(ctx, genReq, func(gr ollama.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", ollamaError(err)
	}

	content := strings.TrimSpace(out.String())
	if content == "" {
		return "", fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}

	return content, nil
}

func ollamaError(err error) error {
	var statusErr ollama.StatusError
	if errors.As(err, &statusErr) {
		return apiError("ollama", statusErr.StatusCode, 0, err)
	}
	return apiError("ollama", 0, 0, err)
}
