// Package text provides the length proxies used in place of model tokenizers.
// Character counts are measured in Unicode code points and word counts split on
// whitespace, so the same text yields the same numbers regardless of provider.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // 5
//	CountRunes("héllo")     // 5
//	CountRunes("hello世界") // 7
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-delimited words.
// Runs of whitespace (spaces, tabs, newlines) count as a single separator and
// leading or trailing whitespace is ignored.
//
// Examples:
//
//	CountWords("one two  three") // 3
//	CountWords("  \n\t ")        // 0
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Truncate returns the first max runes of text, or text itself if it is shorter.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
