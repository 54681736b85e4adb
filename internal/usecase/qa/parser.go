package qa

import (
	"strings"

	"context-summarizer/internal/domain/entity"
)

const (
	contextPrefix  = "context:"
	questionPrefix = "question:"
)

// Validation messages returned to callers verbatim.
const (
	msgEmptyPrompt   = "Prompt cannot be empty."
	msgMissingFields = "Prompt must include 'Context:' and 'Question:' lines."
)

// Prompt is the parsed (context, question) pair of a free-form QA prompt.
type Prompt struct {
	Context  string
	Question string
}

// Validate reports a *entity.ValidationError naming both required fields when
// either one is empty.
func (p Prompt) Validate() error {
	if p.Context == "" || p.Question == "" {
		return &entity.ValidationError{Field: "prompt", Message: msgMissingFields}
	}
	return nil
}

// ParsePrompt extracts the context and question from a free-form prompt.
//
// The prompt is stripped of surrounding whitespace and then scanned line by
// line, so leading blank lines or indentation before the first line do not
// hide its prefix. A line starting with "context:" or "question:"
// (case-insensitive) sets the matching field to the rest of the line, trimmed. Later lines overwrite earlier ones. Other lines are ignored.
func ParsePrompt(prompt string) (Prompt, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Prompt{}, &entity.ValidationError{Field: "prompt", Message: msgEmptyPrompt}
	}

	var p Prompt
	for _, line := range splitLines(prompt) {
		if v, ok := cutPrefixFold(line, contextPrefix); ok {
			p.Context = strings.TrimSpace(v)
		} else if v, ok := cutPrefixFold(line, questionPrefix); ok {
			p.Question = strings.TrimSpace(v)
		}
	}

	if err := p.Validate(); err != nil {
		return Prompt{}, err
	}
	return p, nil
}

// splitLines splits s on "\r\n", "\n" and "\r".
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// cutPrefixFold is strings.CutPrefix with case-insensitive matching of prefix.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
