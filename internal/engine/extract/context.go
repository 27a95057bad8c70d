package extract

import (
	"strings"

	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

// Scopes names the node kinds that open a function or class scope.
type Scopes struct {
	Functions map[string]bool
	Classes   map[string]bool
}

// DefaultScopes covers the javascript, typescript, python, go, java, and rust
// grammars.
func DefaultScopes() Scopes {
	return Scopes{
		Functions: kindSet([]string{
			"function_declaration",
			"generator_function_declaration",
			"function_definition",
			"method_definition",
			"method_declaration",
			"constructor_declaration",
			"function_item",
			"function_expression",
			"function",
			"generator_function",
			"arrow_function",
			"lambda",
		}),
		Classes: kindSet([]string{
			"class_declaration",
			"abstract_class_declaration",
			"class",
			"class_definition",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
			"type_spec",
			"struct_item",
			"enum_item",
			"trait_item",
			"impl_item",
		}),
	}
}

var defaultScopes = DefaultScopes()

// ResolveContext finds the nearest named function and class ancestors of n.
// The two searches are independent and each stops after maxDepth steps.
func ResolveContext(n syntax.Ref, nesting, maxDepth int, scopes Scopes) snippet.Context {
	ctx := snippet.Context{NestingLevel: uint32(max(nesting, 0))}
	if name, ok := nearestScope(n, maxDepth, scopes.Functions); ok {
		ctx.ParentFunction = snippet.StringPtr(name)
	}
	if name, ok := nearestScope(n, maxDepth, scopes.Classes); ok {
		ctx.ParentClass = snippet.StringPtr(name)
	}
	return ctx
}

func nearestScope(n syntax.Ref, maxDepth int, kinds map[string]bool) (string, bool) {
	cur := n.Parent()
	for steps := 0; cur.Valid() && steps < maxDepth; steps++ {
		if kinds[cur.Kind()] {
			// Anonymous scopes are skipped so the search reaches a named one.
			if name := DeclaredName(cur); name != "" {
				return name, true
			}
		}
		cur = cur.Parent()
	}
	return "", false
}

// DeclaredName returns the declared name of a function or type node. Anonymous
// functions borrow the name of the binding they are assigned to.
func DeclaredName(n syntax.Ref) string {
	if n.Kind() == "impl_item" {
		return strings.TrimSpace(n.ChildByField("type").Text())
	}
	if name := n.ChildByField("name"); name.Valid() {
		return strings.TrimSpace(name.Text())
	}

	parent := n.Parent()
	switch parent.Kind() {
	case "variable_declarator":
		return strings.TrimSpace(parent.ChildByField("name").Text())
	case "pair":
		return trimQuotes(parent.ChildByField("key").Text())
	case "assignment_expression", "assignment":
		return strings.TrimSpace(parent.ChildByField("left").Text())
	case "public_field_definition", "field_definition":
		if name := parent.ChildByField("name"); name.Valid() {
			return strings.TrimSpace(name.Text())
		}
		return strings.TrimSpace(parent.ChildByField("property").Text())
	}
	return ""
}

func trimQuotes(value string) string {
	return strings.Trim(strings.TrimSpace(value), "\"'`")
}
