package summarize_test

import (
	"fmt"
	"testing"

	"context-summarizer/internal/domain/entity"
	"context-summarizer/internal/usecase/summarize"

	"github.com/stretchr/testify/assert"
)

func TestBudgetFor(t *testing.T) {
	tests := []struct {
		words int
		want  entity.LengthBudget
	}{
		{words: 0, want: entity.LengthBudget{MinWords: 1, MaxWords: 1}},
		{words: 1, want: entity.LengthBudget{MinWords: 1, MaxWords: 1}},
		{words: 2, want: entity.LengthBudget{MinWords: 1, MaxWords: 2}},
		{words: 3, want: entity.LengthBudget{MinWords: 1, MaxWords: 3}},
		{words: 5, want: entity.LengthBudget{MinWords: 1, MaxWords: 5}},
		{words: 10, want: entity.LengthBudget{MinWords: 2, MaxWords: 6}},
		{words: 49, want: entity.LengthBudget{MinWords: 9, MaxWords: 29}},
		{words: 50, want: entity.LengthBudget{MinWords: 30, MaxWords: 50}},
		{words: 100, want: entity.LengthBudget{MinWords: 30, MaxWords: 100}},
		{words: 120, want: entity.LengthBudget{MinWords: 30, MaxWords: 120}},
		{words: 500, want: entity.LengthBudget{MinWords: 30, MaxWords: 120}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d words", tt.words), func(t *testing.T) {
			assert.Equal(t, tt.want, summarize.BudgetFor(tt.words))
		})
	}
}

func TestBudgetFor_Invariants(t *testing.T) {
	for n := 1; n <= 500; n++ {
		b := summarize.BudgetFor(n)

		assert.GreaterOrEqual(t, b.MaxWords, 1, "n=%d", n)
		assert.LessOrEqual(t, b.MaxWords, n, "n=%d: max exceeds input length", n)
		assert.GreaterOrEqual(t, b.MinWords, 1, "n=%d", n)
		if b.MaxWords == 1 {
			assert.Equal(t, 1, b.MinWords, "n=%d", n)
		} else {
			assert.Less(t, b.MinWords, b.MaxWords, "n=%d", n)
		}
		assert.NoError(t, b.Validate(), "n=%d", n)
	}
}

func TestRecombinationBudget(t *testing.T) {
	assert.Equal(t, entity.LengthBudget{MinWords: 40, MaxWords: 150}, entity.RecombinationBudget())

	b := entity.RecombinationBudget()
	b.MinWords, b.MaxWords = 1, 2
	assert.Equal(t, entity.LengthBudget{MinWords: 40, MaxWords: 150}, entity.RecombinationBudget(),
		"callers must not be able to change the recombination budget")
}
