package document

import (
	"context"
	"net/http"

	"context-summarizer/internal/handler/http/respond"
)

// Summarizer produces one summary of arbitrarily long text.
type Summarizer interface {
	SummarizeText(ctx context.Context, text string) (string, error)
}

// SummarizeHandler serves POST /summarize.
type SummarizeHandler struct {
	Svc      Summarizer
	MaxBytes int64
}

// ServeHTTP decodes {"text": "..."} and responds with {"summary": "..."}.
// Empty text is rejected with 400 "Text cannot be empty.".
func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}

	var req SummarizeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.Svc.SummarizeText(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, SummarizeResponse{Summary: summary})
}
