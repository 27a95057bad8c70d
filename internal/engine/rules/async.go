package rules

import (
	"regexp"
	"strings"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var promiseCallRE = regexp.MustCompile(`\.(then|catch|finally)\s*\(`)

var asyncFunctionKinds = map[string]bool{
	"function_declaration": true,
	"function_definition":  true,
	"method_definition":    true,
	"arrow_function":       true,
	"function_expression":  true,
	"function_item":        true,
}

// AsyncPattern captures async functions, awaited statements, and promise
// chains.
type AsyncPattern struct{}

func (AsyncPattern) Name() string { return "async_pattern" }

func (AsyncPattern) SupportedKinds() []string {
	return []string{
		"function_declaration",
		"function_definition",
		"method_definition",
		"arrow_function",
		"function_expression",
		"function_item",
		"expression_statement",
		"lexical_declaration",
		"return_statement",
	}
}

func (AsyncPattern) IsValid(n syntax.Ref) bool {
	if asyncFunctionKinds[n.Kind()] {
		return isAsync(n) || strings.Contains(n.ChildByKind("function_modifiers").Text(), "async")
	}
	if awaitCount(n) > 0 {
		return true
	}
	return isJSFamily(n) && promiseCallRE.MatchString(n.Text())
}

func (AsyncPattern) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeAsync)
	info := &snippet.FunctionInfo{
		AwaitCount:   awaitCount(n),
		PromiseChain: []string{},
	}
	if asyncFunctionKinds[n.Kind()] {
		info = functionInfo(n)
		info.IsAsync = true
		info.PromiseChain = []string{}
	}
	if isJSFamily(n) {
		for _, m := range promiseCallRE.FindAllStringSubmatch(n.Text(), -1) {
			info.PromiseChain = append(info.PromiseChain, m[1])
		}
	}
	s.Metadata.Function = info
	return &s, nil
}
