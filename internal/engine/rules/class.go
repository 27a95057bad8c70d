package rules

import (
	"strings"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var methodKinds = []string{
	"method_definition",
	"method_declaration",
	"constructor_declaration",
	"function_definition",
}

// ClassDefinition captures class declarations. Exported classes list their
// name in the snippet exports.
type ClassDefinition struct{}

func (ClassDefinition) Name() string { return "class_definition" }

func (ClassDefinition) SupportedKinds() []string {
	return []string{
		"class_declaration",
		"abstract_class_declaration",
		"class_definition",
		"class",
	}
}

func (ClassDefinition) IsValid(n syntax.Ref) bool {
	return extract.DeclaredName(n) != ""
}

func (ClassDefinition) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeClass)
	body := n.ChildByField("body")
	info := &snippet.ClassInfo{
		Name:       extract.DeclaredName(n),
		HasSuper:   hasSuperclass(n),
		IsExported: isExported(n),
	}
	for _, k := range methodKinds {
		// Python methods may sit one level down inside decorated_definition.
		info.Methods += body.CountDescendants(2, k)
	}
	if info.IsExported {
		s.Exports = append(s.Exports, info.Name)
	}
	s.Metadata.Class = info
	return &s, nil
}

func hasSuperclass(n syntax.Ref) bool {
	if n.ChildByKind("class_heritage").Valid() {
		return true
	}
	if sc := n.ChildByField("superclasses"); sc.Valid() && sc.ChildCount() > 0 {
		return true
	}
	return n.ChildByField("superclass").Valid()
}

func isExported(n syntax.Ref) bool {
	if n.Parent().Kind() == "export_statement" {
		return true
	}
	if language(n) == "java" {
		for _, mod := range strings.Fields(n.ChildByKind("modifiers").Text()) {
			if mod == "public" {
				return true
			}
		}
	}
	return false
}
