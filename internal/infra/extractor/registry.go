package extractor

import (
	"context-summarizer/internal/usecase/extract"
)

// Registry returns the built-in extractors keyed by media type.
func Registry() map[string]extract.Extractor {
	return map[string]extract.Extractor{
		extract.MediaTypePlainText: NewPlainText(),
		extract.MediaTypePDF:       NewPDF(),
		extract.MediaTypeHTML:      NewHTML(),
	}
}
