package rules

import (
	"strconv"
	"strings"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var iteratorMethods = map[string]bool{
	"map":       true,
	"filter":    true,
	"reduce":    true,
	"forEach":   true,
	"flatMap":   true,
	"some":      true,
	"every":     true,
	"find":      true,
	"collect":   true,
	"iter":      true,
	"into_iter": true,
	"fold":      true,
	"stream":    true,
}

var comprehensionKinds = map[string]bool{
	"list_comprehension":       true,
	"dictionary_comprehension": true,
	"set_comprehension":        true,
	"generator_expression":     true,
}

// Iterator captures generators, comprehensions, and chains of collection
// methods such as map, filter, and reduce.
type Iterator struct{}

func (Iterator) Name() string { return "iterator" }

func (Iterator) SupportedKinds() []string {
	return []string{
		"generator_function_declaration",
		"generator_function",
		"function_definition",
		"list_comprehension",
		"dictionary_comprehension",
		"set_comprehension",
		"generator_expression",
		"call_expression",
		"call",
		"method_invocation",
	}
}

func (Iterator) IsValid(n syntax.Ref) bool {
	switch {
	case n.Kind() == "generator_function_declaration", n.Kind() == "generator_function":
		return true
	case n.Kind() == "function_definition":
		return n.ChildByField("body").HasDescendant(searchDepth, "yield")
	case comprehensionKinds[n.Kind()]:
		return true
	}
	return !isChained(n) && len(chainMethods(n)) > 0
}

func (Iterator) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeIterator)
	switch {
	case comprehensionKinds[n.Kind()]:
		s.Metadata.SetExtra("pattern", "comprehension")
		s.Metadata.SetExtra("form", strings.TrimSuffix(strings.TrimSuffix(n.Kind(), "_comprehension"), "_expression"))
	case isCall(n):
		s.Metadata.SetExtra("pattern", "method_chain")
		s.Metadata.SetExtra("methods", strings.Join(chainMethods(n), ","))
	default:
		s.Metadata.SetExtra("pattern", "generator")
		yields := n.CountDescendants(searchDepth, "yield_expression") + n.CountDescendants(searchDepth, "yield")
		s.Metadata.SetExtra("yields", strconv.Itoa(yields))
	}
	return &s, nil
}

// chainMethods lists the iterator methods of the call chain ending at n, from
// the innermost call outwards.
func chainMethods(n syntax.Ref) []string {
	var methods []string
	cur := n
	for steps := 0; isCall(cur) && steps < extract.DefaultMaxDepth; steps++ {
		if _, method := calleeParts(cur); iteratorMethods[method] {
			methods = append(methods, method)
		}
		cur = receiverNode(cur)
	}
	for i, j := 0, len(methods)-1; i < j; i, j = i+1, j-1 {
		methods[i], methods[j] = methods[j], methods[i]
	}
	return methods
}
