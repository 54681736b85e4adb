// Package entity defines the request-scoped value objects of the summarization
// pipeline (chunks, length budgets, answers) and the domain error taxonomy.
// None of these values are mutated after creation.
package entity

import (
	"fmt"

	"context-summarizer/internal/utils/text"
)

// Chunk is a contiguous substring of a source text, addressed by the half-open
// rune range [Start, End). Text holds the substring with surrounding whitespace
// stripped and is never empty for an emitted chunk.
type Chunk struct {
	Start int
	End   int
	Text  string
}

// Len returns the width of the chunk's range in runes (before stripping).
func (c Chunk) Len() int {
	return c.End - c.Start
}

// WordCount returns the whitespace-delimited word count of the chunk text.
func (c Chunk) WordCount() int {
	return text.CountWords(c.Text)
}

// LengthBudget is the (min, max) output length, in words, requested from a
// summarization call.
type LengthBudget struct {
	MinWords int
	MaxWords int
}

// RecombinationBudget returns the fixed budget of the second summarization pass
// over concatenated partial summaries.
func RecombinationBudget() LengthBudget {
	return LengthBudget{MinWords: 40, MaxWords: 150}
}

// Validate checks that the budget is self-consistent: both bounds positive and
// MinWords strictly below MaxWords unless both are 1.
func (b LengthBudget) Validate() error {
	if b.MinWords < 1 || b.MaxWords < 1 {
		return &ValidationError{
			Field:   "budget",
			Message: fmt.Sprintf("bounds must be positive, got (%d, %d)", b.MinWords, b.MaxWords),
		}
	}
	if b.MaxWords == 1 {
		if b.MinWords != 1 {
			return &ValidationError{Field: "budget", Message: "min must be 1 when max is 1"}
		}
		return nil
	}
	if b.MinWords >= b.MaxWords {
		return &ValidationError{
			Field:   "budget",
			Message: fmt.Sprintf("min %d must be less than max %d", b.MinWords, b.MaxWords),
		}
	}
	return nil
}

// String formats the budget as "min-max words".
func (b LengthBudget) String() string {
	return fmt.Sprintf("%d-%d words", b.MinWords, b.MaxWords)
}
