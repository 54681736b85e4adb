package summarizer

import (
	"context"
	"strings"
	"unicode"

	"context-summarizer/internal/domain/entity"
)

// Extractive is a summarizer that needs no model: it returns the leading
// sentences of the text that fit within the word budget. A first sentence
// longer than the budget is cut at MaxWords words.
// It is the default when no provider is configured.
type Extractive struct{}

// NewExtractive creates a new Extractive summarizer.
func NewExtractive() *Extractive {
	return &Extractive{}
}

// Provider returns "extractive".
func (e *Extractive) Provider() string { return "extractive" }

// BreakerOpen always returns false.
func (e *Extractive) BreakerOpen() bool { return false }

// Summarize implements the Summarizer interface.
func (e *Extractive) Summarize(ctx context.Context, input string, budget entity.LengthBudget) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := budget.Validate(); err != nil {
		return "", err
	}

	var (
		out   []string
		words int
	)
	for _, sentence := range sentences(input) {
		fields := strings.Fields(sentence)
		if words+len(fields) > budget.MaxWords {
			if words == 0 {
				out = append(out, strings.Join(fields[:budget.MaxWords], " "))
			}
			break
		}
		out = append(out, strings.Join(fields, " "))
		words += len(fields)
		if words >= budget.MinWords {
			break
		}
	}

	return strings.Join(out, " "), nil
}

// sentences splits s after '.', '!' or '?' when followed by whitespace or the
// end of the text. Empty sentences are dropped.
func sentences(s string) []string {
	var (
		result []string
		start  int
	)
	runes := []rune(s)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			result = append(result, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		result = append(result, tail)
	}
	return result
}
