package rules

import (
	"strings"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var blockBodies = map[string]bool{
	"statement_block": true,
	"block":           true,
}

// Lambda captures anonymous functions and closures.
type Lambda struct{}

func (Lambda) Name() string { return "lambda" }

func (Lambda) SupportedKinds() []string {
	return []string{
		"arrow_function",
		"function_expression",
		"function",
		"lambda",
		"lambda_expression",
		"func_literal",
		"closure_expression",
	}
}

func (Lambda) IsValid(n syntax.Ref) bool { return n.Valid() }

func (Lambda) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeLambda)
	s.Metadata.Function = functionInfo(n)
	return &s, nil
}

func functionInfo(n syntax.Ref) *snippet.FunctionInfo {
	params := firstValid(n.ChildByField("parameters"), n.ChildByField("parameter"))
	body := n.ChildByField("body")
	info := &snippet.FunctionInfo{
		Parameters:     len(paramNames(params)),
		IsAsync:        isAsync(n),
		IsArrow:        n.Kind() == "arrow_function",
		ExpressionBody: body.Valid() && !blockBodies[body.Kind()],
		AwaitCount:     awaitCount(n),
	}
	if n.Kind() == "func_literal" {
		info.ExpressionBody = false
	}
	return info
}

func isAsync(n syntax.Ref) bool {
	text := strings.TrimSpace(n.Text())
	return strings.HasPrefix(text, "async ") || strings.HasPrefix(text, "async(")
}

func awaitCount(n syntax.Ref) int {
	return n.CountDescendants(searchDepth, "await_expression") + n.CountDescendants(searchDepth, "await")
}
