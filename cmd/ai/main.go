// Command ai summarizes documents, extracts their text and answers questions
// about a context passage from the command line.
//
// Usage:
//
//	ai summarize report.pdf
//	cat notes.txt | ai summarize -
//	ai ask --context "The sky is blue." --question "What color is the sky?"
//	ai extract page.html --output json
package main

import (
	"fmt"
	"os"

	"context-summarizer/cmd/ai/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
