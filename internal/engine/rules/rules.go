// Package rules holds the concrete snippet rules. Each rule is a small
// stateless type implementing extract.Rule.
package rules

import (
	"fmt"
	"strings"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/syntax"
)

// searchDepth bounds descendant searches made while building payloads.
const searchDepth = 8

// Default returns every rule in execution order. Deduplication keeps the first
// snippet for a given content, so narrower rules run before broader ones.
func Default() []extract.Rule {
	return []extract.Rule{
		TestCase{},
		Framework{},
		ErrorHandling{},
		AsyncPattern{},
		Decorator{},
		Iterator{},
		Destructuring{},
		Lambda{},
		ControlStructure{},
		ClassDefinition{},
	}
}

// Names lists the rule names of Default in order.
func Names() []string {
	all := Default()
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, r.Name())
	}
	return names
}

// Select filters Default by name. An empty enabled list keeps every rule;
// disabled always wins. Unknown names are rejected.
func Select(enabled, disabled []string) ([]extract.Rule, error) {
	known := make(map[string]bool)
	for _, name := range Names() {
		known[name] = true
	}
	check := func(names []string) (map[string]bool, error) {
		set := make(map[string]bool, len(names))
		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if !known[name] {
				return nil, errors.AddContext(
					errors.New(errors.CodeNotFound, fmt.Sprintf("unknown rule %q", raw)),
					errors.CtxRule, raw,
				)
			}
			set[name] = true
		}
		return set, nil
	}

	on, err := check(enabled)
	if err != nil {
		return nil, err
	}
	off, err := check(disabled)
	if err != nil {
		return nil, err
	}

	out := make([]extract.Rule, 0, len(known))
	for _, r := range Default() {
		if off[r.Name()] {
			continue
		}
		if len(on) > 0 && !on[r.Name()] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func isJSFamily(n syntax.Ref) bool {
	switch n.Tree().Language() {
	case "javascript", "typescript", "tsx":
		return true
	}
	return false
}

func language(n syntax.Ref) string { return n.Tree().Language() }

// calleeParts splits the callee of a call node into receiver and method. A
// plain identifier callee has no receiver.
func calleeParts(call syntax.Ref) (receiver, method string) {
	fn := call.ChildByField("function")
	if call.Kind() == "method_invocation" {
		return strings.TrimSpace(call.ChildByField("object").Text()), strings.TrimSpace(call.ChildByField("name").Text())
	}
	switch fn.Kind() {
	case "member_expression":
		return strings.TrimSpace(fn.ChildByField("object").Text()), strings.TrimSpace(fn.ChildByField("property").Text())
	case "attribute":
		return strings.TrimSpace(fn.ChildByField("object").Text()), strings.TrimSpace(fn.ChildByField("attribute").Text())
	case "field_expression":
		return strings.TrimSpace(fn.ChildByField("value").Text()), strings.TrimSpace(fn.ChildByField("field").Text())
	case "selector_expression":
		return strings.TrimSpace(fn.ChildByField("operand").Text()), strings.TrimSpace(fn.ChildByField("field").Text())
	}
	return "", strings.TrimSpace(fn.Text())
}

// receiverNode returns the call node a chained call is invoked on, if any.
func receiverNode(call syntax.Ref) syntax.Ref {
	var obj syntax.Ref
	if call.Kind() == "method_invocation" {
		obj = call.ChildByField("object")
	} else {
		fn := call.ChildByField("function")
		switch fn.Kind() {
		case "member_expression", "attribute":
			obj = fn.ChildByField("object")
		case "field_expression":
			obj = fn.ChildByField("value")
		}
	}
	if isCall(obj) {
		return obj
	}
	return syntax.Ref{}
}

// isChained reports whether call is itself the receiver of a further call.
func isChained(call syntax.Ref) bool {
	p := call.Parent()
	switch p.Kind() {
	case "method_invocation":
		return call.Field() == "object"
	case "member_expression", "attribute", "field_expression":
		gp := p.Parent()
		return isCall(gp) && p.Field() == "function"
	}
	return false
}

func isCall(n syntax.Ref) bool {
	switch n.Kind() {
	case "call_expression", "call", "method_invocation":
		return true
	}
	return false
}

// firstStringArg returns the unquoted first argument of call when it is a
// string literal.
func firstStringArg(call syntax.Ref) (string, bool) {
	args := call.ChildByField("arguments")
	first := args.Child(0)
	switch first.Kind() {
	case "string", "template_string", "string_literal", "interpreted_string_literal", "raw_string_literal":
		return unquote(first.Text()), true
	}
	return "", false
}

func unquote(value string) string {
	return strings.Trim(strings.TrimSpace(value), "\"'`")
}

// decoratorName strips the sigil and any argument list from a decorator or
// annotation.
func decoratorName(text string) string {
	name := strings.TrimSpace(text)
	name = strings.TrimPrefix(name, "@")
	name = strings.TrimPrefix(name, "#[")
	if i := strings.IndexAny(name, "(]"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// paramNames lists the declared parameter names under a parameter list node.
func paramNames(params syntax.Ref) []string {
	names := []string{}
	if !params.Valid() {
		return names
	}
	if params.ChildCount() == 0 {
		if text := strings.TrimSpace(params.Text()); text != "" && text != "()" {
			names = append(names, text)
		}
		return names
	}
	for i := 0; i < params.ChildCount(); i++ {
		p := params.Child(i)
		if p.Kind() == "comment" {
			continue
		}
		if fields := p.ChildrenByField("name"); len(fields) > 0 {
			for _, f := range fields {
				names = append(names, strings.TrimSpace(f.Text()))
			}
			continue
		}
		if pat := p.ChildByField("pattern"); pat.Valid() {
			names = append(names, strings.TrimSpace(pat.Text()))
			continue
		}
		names = append(names, strings.TrimSpace(p.Text()))
	}
	return names
}

// hasAnnotation reports whether a Java declaration carries @name.
func hasAnnotation(decl syntax.Ref, name string) bool {
	for _, a := range annotations(decl) {
		if decoratorName(a.Text()) == name {
			return true
		}
	}
	return false
}

func annotations(decl syntax.Ref) []syntax.Ref {
	mods := decl.ChildByKind("modifiers")
	var out []syntax.Ref
	for i := 0; i < mods.ChildCount(); i++ {
		c := mods.Child(i)
		if c.Kind() == "annotation" || c.Kind() == "marker_annotation" {
			out = append(out, c)
		}
	}
	return out
}

func firstValid(refs ...syntax.Ref) syntax.Ref {
	for _, r := range refs {
		if r.Valid() {
			return r
		}
	}
	return syntax.Ref{}
}
