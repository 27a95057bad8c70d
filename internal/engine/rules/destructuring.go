package rules

import (
	"strconv"
	"strings"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var patternKinds = map[string]string{
	"object_pattern":       "object",
	"array_pattern":        "array",
	"pattern_list":         "tuple",
	"tuple_pattern":        "tuple",
	"list_pattern":         "list",
	"struct_pattern":       "struct",
	"tuple_struct_pattern": "tuple_struct",
	"slice_pattern":        "slice",
}

// Destructuring captures declarations and assignments that bind through an
// object, array, or tuple pattern.
type Destructuring struct{}

func (Destructuring) Name() string { return "destructuring" }

func (Destructuring) SupportedKinds() []string {
	return []string{
		"lexical_declaration",
		"variable_declaration",
		"assignment",
		"let_declaration",
	}
}

func (Destructuring) IsValid(n syntax.Ref) bool {
	return destructuringPattern(n).Valid()
}

func (Destructuring) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeDestructuring)
	pat := destructuringPattern(n)
	s.Metadata.SetExtra("pattern", patternKinds[pat.Kind()])
	s.Metadata.SetExtra("bindings", strconv.Itoa(pat.ChildCount()))
	if src := destructuringSource(n, pat); src != "" {
		s.Metadata.SetExtra("source", src)
	}
	return &s, nil
}

// destructuringPattern returns the first binding pattern declared by n.
func destructuringPattern(n syntax.Ref) syntax.Ref {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < n.ChildCount(); i++ {
			d := n.Child(i)
			if d.Kind() != "variable_declarator" {
				continue
			}
			if name := d.ChildByField("name"); patternKinds[name.Kind()] != "" {
				return name
			}
		}
	case "assignment":
		if left := n.ChildByField("left"); patternKinds[left.Kind()] != "" {
			return left
		}
	case "let_declaration":
		if pat := n.ChildByField("pattern"); patternKinds[pat.Kind()] != "" {
			return pat
		}
	}
	return syntax.Ref{}
}

func destructuringSource(n, pat syntax.Ref) string {
	var value syntax.Ref
	switch n.Kind() {
	case "assignment":
		value = n.ChildByField("right")
	case "let_declaration":
		value = n.ChildByField("value")
	default:
		value = pat.Parent().ChildByField("value")
	}
	text := strings.TrimSpace(value.Text())
	if len(text) > 80 || strings.Contains(text, "\n") {
		return ""
	}
	return text
}
