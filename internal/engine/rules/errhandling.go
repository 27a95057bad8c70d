package rules

import (
	"regexp"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var errCheckRE = regexp.MustCompile(`\berr\s*!=\s*nil\b`)

// ErrorHandling captures try blocks, throw and raise statements, and Go's
// `if err != nil` checks.
type ErrorHandling struct{}

func (ErrorHandling) Name() string { return "error_handling" }

func (ErrorHandling) SupportedKinds() []string {
	return []string{
		"try_statement",
		"try_with_resources_statement",
		"throw_statement",
		"raise_statement",
		"if_statement",
	}
}

func (ErrorHandling) IsValid(n syntax.Ref) bool {
	if n.Kind() != "if_statement" {
		return true
	}
	return language(n) == "go" && errCheckRE.MatchString(n.ChildByField("condition").Text())
}

func (ErrorHandling) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeErrorHandling)
	info := &snippet.ErrorHandlingInfo{}
	switch n.Kind() {
	case "try_statement", "try_with_resources_statement":
		info.Idiom = "try_catch"
		if n.Kind() == "try_with_resources_statement" {
			info.Idiom = "try_with_resources"
		}
		handler := firstValid(
			n.ChildByField("handler"),
			n.ChildByKind("catch_clause"),
			n.ChildByKind("except_clause"),
		)
		info.HasCatch = handler.Valid()
		info.HasFinally = firstValid(n.ChildByField("finalizer"), n.ChildByKind("finally_clause")).Valid()
		info.Rethrows = handler.HasDescendant(searchDepth, "throw_statement", "raise_statement")
	case "throw_statement":
		info.Idiom = "throw"
		info.Rethrows = true
	case "raise_statement":
		info.Idiom = "raise"
		info.Rethrows = true
	case "if_statement":
		info.Idiom = "err_check"
		body := n.ChildByField("consequence")
		info.Rethrows = body.HasDescendant(searchDepth, "return_statement")
	}
	s.Metadata.ErrorHandling = info
	return &s, nil
}
