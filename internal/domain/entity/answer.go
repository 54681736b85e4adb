package entity

// Answer is the result of a question-answering call. It is either a structured
// answer carrying text or NoAnswer, for results that held no answer field.
type Answer struct {
	text  string
	found bool
}

// StructuredAnswer builds an Answer carrying text.
func StructuredAnswer(text string) Answer {
	return Answer{text: text, found: true}
}

// NoAnswer builds the empty Answer variant.
func NoAnswer() Answer {
	return Answer{}
}

// Found reports whether the answer carries text from a structured result.
func (a Answer) Found() bool {
	return a.found
}

// Text returns the answer text, or "" for NoAnswer.
func (a Answer) Text() string {
	if !a.found {
		return ""
	}
	return a.text
}
