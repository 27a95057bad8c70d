package extract

import (
	"unicode/utf8"

	"snipex/internal/engine/snippet"
)

// Bounds is the structural validation window. Length counts runes.
type Bounds struct {
	MinComplexity int
	MaxComplexity int
	MinLength     int
	MaxLength     int
}

// Accept reports whether s falls inside the window.
func (b Bounds) Accept(s snippet.Snippet) bool {
	c := s.Classification.Complexity
	if c < 1 || c < b.MinComplexity || c > b.MaxComplexity {
		return false
	}
	n := utf8.RuneCountInString(s.Content)
	return n >= b.MinLength && n <= b.MaxLength
}

// Validate keeps the snippets inside the window, preserving order.
func Validate(snippets []snippet.Snippet, b Bounds) ([]snippet.Snippet, int) {
	out := make([]snippet.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if b.Accept(s) {
			out = append(out, s)
		}
	}
	return out, len(snippets) - len(out)
}
