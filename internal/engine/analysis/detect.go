package analysis

import (
	"regexp"
	"strings"

	"snipex/internal/engine/snippet"
)

var (
	asyncRE         = regexp.MustCompile(`\basync\b|\bawait\b`)
	generatorRE     = regexp.MustCompile(`\bfunction\s*\*|\byield\b`)
	destructuringRE = regexp.MustCompile(`(?m)\b(?:const|let|var)\s*[\[{]|^\s*[\[{][^\n=]*[\]}]\s*=[^=>]|\(\s*\{[^)]*\}\s*\)\s*=>`)
	spreadRE        = regexp.MustCompile(`\.\.\.[\w$\[{(]`)
	templateRE      = regexp.MustCompile("`[^`]*`")

	incDecRE       = regexp.MustCompile(`\+\+|--`)
	mutatingKeyRE  = regexp.MustCompile(`\b(?:delete|throw|new)\b`)
	propAssignRE   = regexp.MustCompile(`[\w$\])](?:\.[\w$]+|\[[^\]\n]+\])\s*(?:[+\-*/%|&]?=)[^=]`)
	globalCallRE   = regexp.MustCompile(`\b(?:console|window|document|localStorage|sessionStorage|process|globalThis|fs)\.[\w$]+\s*\(`)
	continuationRE = regexp.MustCompile(`^(?:else\b|catch\b|finally\b|case\b|default\s*:|elif\b|except\b|\.)`)
)

// Features flags the language constructs present in content.
func Features(content string) snippet.LanguageFeatures {
	return snippet.LanguageFeatures{
		UsesAsync:            asyncRE.MatchString(content),
		UsesGenerators:       generatorRE.MatchString(content),
		UsesDestructuring:    destructuringRE.MatchString(content),
		UsesSpread:           spreadRE.MatchString(content),
		UsesTemplateLiterals: templateRE.MatchString(content),
	}
}

// HasSideEffects reports mutation or IO idioms: increments, delete/throw/new,
// property assignment, and calls on well-known global objects.
func HasSideEffects(content string) bool {
	return incDecRE.MatchString(content) ||
		mutatingKeyRE.MatchString(content) ||
		propAssignRE.MatchString(content) ||
		globalCallRE.MatchString(content)
}

// IsStandalone guesses whether content reads on its own: brackets balance and
// it does not open with a continuation clause.
func IsStandalone(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	if continuationRE.MatchString(trimmed) {
		return false
	}
	return bracketsBalanced(trimmed)
}

func bracketsBalanced(s string) bool {
	var stack []byte
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != opening(c) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0 && quote == 0
}

func opening(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	}
	return '{'
}
