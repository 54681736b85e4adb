package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/handler/http/respond"
	"context-summarizer/internal/usecase/extract"
)

// FormField is the multipart field that carries the uploaded document.
const FormField = "file"

// memoryLimit is how much of a multipart form is held in memory before parts
// spill to temporary files.
const memoryLimit = 8 << 20

// Extractor converts a document of the declared content type to text.
type Extractor interface {
	ExtractText(ctx context.Context, contentType string, data []byte) (string, error)
}

// UploadHandler serves POST /upload.
type UploadHandler struct {
	Svc      Extractor
	MaxBytes int64
	Logger   *slog.Logger
}

// ServeHTTP reads the "file" part of a multipart form and responds with its
// text as {"text": "..."}. The document kind comes from the part's
// Content-Type; when that is missing or generic, the file extension decides.
func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}

	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, err)
			return
		}
		writeError(w, &entity.ValidationError{Field: FormField, Message: "invalid multipart form"})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger := h.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("failed to remove multipart temp files", slog.Any("error", err))
		}
	}()

	file, header, err := r.FormFile(FormField)
	if err != nil {
		writeError(w, &entity.ValidationError{Field: FormField, Message: fmt.Sprintf("%s is required", FormField)})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, fmt.Errorf("read upload: %w", err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if generic(contentType) {
		if mt := extract.MediaTypeForExtension(filepath.Ext(header.Filename)); mt != "" {
			contentType = mt
		}
	}

	text, err := h.Svc.ExtractText(r.Context(), contentType, data)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, UploadResponse{Text: text})
}

func generic(contentType string) bool {
	switch extract.MediaType(contentType) {
	case "", "application/octet-stream":
		return true
	}
	return false
}
