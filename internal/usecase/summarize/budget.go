package summarize

import "context-summarizer/internal/domain/entity"

const (
	// shortChunkWords is the word count below which budgets scale with the chunk.
	shortChunkWords = 50

	longChunkMaxWords = 120
	longChunkMinWords = 30
)

// BudgetFor computes the length budget for a chunk of n words.
//
// Short chunks (under 50 words) ask for 60% of their length, at least 5 words,
// with a floor of 20%, at least 1 word. Longer chunks ask for 30-120 words. The
// maximum is clamped to n so a summary is never longer than its input, and the
// minimum stays strictly below the maximum; a one-word chunk gets (1, 1).
func BudgetFor(n int) entity.LengthBudget {
	n = max(n, 1)

	desiredMax, desiredMin := longChunkMaxWords, longChunkMinWords
	if n < shortChunkWords {
		desiredMax = max(5, n*6/10)
		desiredMin = max(1, n*2/10)
	}

	maxLen := min(desiredMax, n)
	minLen := 1
	if maxLen > 1 {
		minLen = min(desiredMin, maxLen-1, n-1)
	}
	return entity.LengthBudget{MinWords: minLen, MaxWords: maxLen}
}
