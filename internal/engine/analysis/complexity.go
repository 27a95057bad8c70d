// Package analysis holds the content-only scoring and detection functions
// applied to every snippet. Nothing here looks at tree structure.
package analysis

import (
	"regexp"
	"strings"
)

var controlKeywordRE = regexp.MustCompile(`\b(?:if|else|for|while|switch|case|try|catch|finally)\b|&&|\|\|`)

// Complexity is the baseline score: non-blank lines plus control keywords and
// logical operators, floored at one.
func Complexity(content string) int {
	return Enrich(NonBlankLines(content)+ControlKeywords(content), 0)
}

// ControlKeywords counts branching, looping, and exception keywords plus
// logical operators in content.
func ControlKeywords(content string) int {
	return len(controlKeywordRE.FindAllStringIndex(content, -1))
}

// NonBlankLines counts lines containing anything besides whitespace.
func NonBlankLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// Enrich adds a rule-specific bonus to a baseline score without dropping
// below the floor of one.
func Enrich(base, bonus int) int {
	score := base + bonus
	if score < 1 {
		return 1
	}
	return score
}
