package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiConfig holds parameters for the Gemini adapter.
type GeminiConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// Gemini implements Completer using the Google AI generative language API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGemini creates a Gemini adapter. The returned adapter owns a client
// connection that must be released with Close.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: missing API key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &Gemini{client: client, model: model, maxTokens: cfg.MaxTokens}, nil
}

// Name implements Completer.
func (g *Gemini) Name() string { return "gemini" }

// Close releases the client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.model)
	configureGemini(model, req, g.maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", geminiError(err)
	}

	content := geminiText(resp)
	if content == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	return content, nil
}

// configureGemini applies the per-request generation settings to model.
func configureGemini(model *genai.GenerativeModel, req Request, fallbackTokens int) {
	model.SetMaxOutputTokens(int32(maxTokens(req, fallbackTokens)))
	model.SetTemperature(temperature)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out.WriteString(string(t))
		}
	}
	return strings.TrimSpace(out.String())
}

func geminiError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return apiError("gemini", gErr.Code, 0, err)
	}
	return apiError("gemini", 0, 0, err)
}
