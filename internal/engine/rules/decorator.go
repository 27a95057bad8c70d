package rules

import (
	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

// Decorator captures decorated definitions. The snippet covers the decorated
// definition whenever the grammar nests decorators inside it; otherwise it
// covers the decorator alone.
type Decorator struct{}

func (Decorator) Name() string { return "decorator" }

func (Decorator) SupportedKinds() []string {
	return []string{
		// python
		"decorated_definition",
		// javascript, typescript
		"class_declaration",
		"abstract_class_declaration",
		"method_definition",
		"public_field_definition",
		"export_statement",
		"decorator",
		// java
		"method_declaration",
		"field_declaration",
		// rust
		"attribute_item",
	}
}

func (Decorator) IsValid(n syntax.Ref) bool {
	switch n.Kind() {
	case "decorated_definition", "attribute_item":
		return true
	case "decorator":
		// Typescript keeps member decorators as class body siblings.
		return n.Parent().Kind() == "class_body"
	}
	return len(decorators(n)) > 0
}

func (Decorator) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeDecorator)
	info := &snippet.DecoratorInfo{Names: []string{}}

	switch n.Kind() {
	case "decorator", "attribute_item":
		info.Names = append(info.Names, decoratorName(n.Text()))
		target := n.NextSibling()
		for target.Kind() == n.Kind() {
			target = target.NextSibling()
		}
		info.Target = target.Kind()
	case "decorated_definition":
		info.Target = n.ChildByField("definition").Kind()
		for _, d := range decorators(n) {
			info.Names = append(info.Names, decoratorName(d.Text()))
		}
	default:
		info.Target = n.Kind()
		if n.Kind() == "export_statement" {
			info.Target = n.ChildByField("declaration").Kind()
		}
		for _, d := range decorators(n) {
			info.Names = append(info.Names, decoratorName(d.Text()))
		}
	}
	s.Metadata.Decorator = info
	return &s, nil
}

// decorators returns the decorator or annotation nodes attached to n.
func decorators(n syntax.Ref) []syntax.Ref {
	if language(n) == "java" {
		return annotations(n)
	}
	var out []syntax.Ref
	for i := 0; i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == "decorator" {
			out = append(out, c)
		}
	}
	return out
}
