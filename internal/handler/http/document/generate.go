package document

import (
	"context"
	"net/http"

	"context-summarizer/internal/handler/http/respond"
)

// Generator answers the question contained in a "Context:/Question:" prompt.
type Generator interface {
	AnswerQuestion(ctx context.Context, prompt string) (string, error)
}

// GenerateHandler serves POST /generate.
type GenerateHandler struct {
	Svc      Generator
	MaxBytes int64
}

// ServeHTTP decodes {"prompt": "..."} and responds with {"result": "..."}.
func (h GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}

	var req GenerateRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Svc.AnswerQuestion(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, GenerateResponse{Result: result})
}
