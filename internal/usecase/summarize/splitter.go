package summarize

import (
	"strings"

	"context-summarizer/internal/domain/entity"
)

const (
	// DefaultMaxChunkChars is the character budget of one chunk. It approximates
	// the input window of encoder-decoder summarization models.
	DefaultMaxChunkChars = 1024

	// DefaultOverlapChars is how many characters each chunk re-reads from the
	// end of the previous one.
	DefaultOverlapChars = 100
)

// Splitter cuts a source text into overlapping chunks, preferring to end each
// chunk on a sentence boundary ('.') over an exact length cut.
type Splitter struct {
	MaxChunkChars int
	OverlapChars  int
}

// DefaultSplitter returns a Splitter with the 1024/100 character parameters.
func DefaultSplitter() Splitter {
	return Splitter{
		MaxChunkChars: DefaultMaxChunkChars,
		OverlapChars:  DefaultOverlapChars,
	}
}

// Split returns the chunks of src in left-to-right order. Positions are rune
// offsets. Chunks whose text is blank after stripping are skipped. Empty input
// yields no chunks.
//
// Each chunk starts OverlapChars before the previous chunk's end (clamped to 0),
// so a sentence near a boundary may appear in two adjacent chunks. The cursor
// always moves forward: when the overlap would not advance it, the next chunk
// starts where the previous one ended. Splitting stops after the chunk that
// reaches the end of the text.
func (s Splitter) Split(src string) []entity.Chunk {
	runes := []rune(src)
	n := len(runes)

	var chunks []entity.Chunk
	start := 0
	for start < n {
		end := min(start+s.MaxChunkChars, n)
		if end < n {
			if pos := lastIndex(runes, '.', start, end); pos > start {
				end = pos + 1
			}
		}

		if chunkText := strings.TrimSpace(string(runes[start:end])); chunkText != "" {
			chunks = append(chunks, entity.Chunk{Start: start, End: end, Text: chunkText})
		}

		if end >= n {
			break
		}
		next := max(end-s.OverlapChars, 0)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// lastIndex returns the index of the last r in runes[from:to], or -1.
func lastIndex(runes []rune, r rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
