package rules

import (
	"strings"

	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var jsTestBlocks = map[string]bool{"describe": true, "it": true, "test": true}

// TestCase captures test definitions: describe/it/test calls, python test_*
// functions, Go Test functions, JUnit @Test methods, and Rust #[test]
// functions.
type TestCase struct{}

func (TestCase) Name() string { return "test_case" }

func (TestCase) SupportedKinds() []string {
	return []string{
		"call_expression",
		"function_definition",
		"function_declaration",
		"method_declaration",
		"function_item",
	}
}

func (TestCase) IsValid(n syntax.Ref) bool {
	return detectTest(n) != nil
}

func (TestCase) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	info := detectTest(n)
	if info == nil {
		return nil, nil
	}
	s := extract.Assemble(n, nesting, snippet.TypeTest)
	s.Metadata.Test = info
	return &s, nil
}

func detectTest(n syntax.Ref) *snippet.TestInfo {
	name := strings.TrimSpace(n.ChildByField("name").Text())
	switch n.Kind() {
	case "call_expression":
		if !isJSFamily(n) {
			return nil
		}
		receiver, method := calleeParts(n)
		block := method
		if receiver != "" {
			// describe.only, it.skip, test.each
			block = receiver
		}
		if !jsTestBlocks[block] {
			return nil
		}
		title, ok := firstStringArg(n)
		if !ok {
			return nil
		}
		return &snippet.TestInfo{Framework: "jest", Name: title, Block: block}
	case "function_definition":
		if language(n) == "python" && strings.HasPrefix(name, "test_") {
			return &snippet.TestInfo{Framework: "pytest", Name: name, Block: "function"}
		}
	case "function_declaration":
		if language(n) != "go" {
			return nil
		}
		for _, prefix := range []string{"Test", "Benchmark", "Fuzz"} {
			if strings.HasPrefix(name, prefix) && strings.Contains(n.ChildByField("parameters").Text(), "*testing.") {
				return &snippet.TestInfo{Framework: "go_testing", Name: name, Block: "function"}
			}
		}
	case "method_declaration":
		if language(n) == "java" && (hasAnnotation(n, "Test") || hasAnnotation(n, "ParameterizedTest")) {
			return &snippet.TestInfo{Framework: "junit", Name: name, Block: "method"}
		}
	case "function_item":
		for prev := n.PrevSibling(); prev.Kind() == "attribute_item"; prev = prev.PrevSibling() {
			if decoratorName(prev.Text()) == "test" {
				return &snippet.TestInfo{Framework: "rust_test", Name: name, Block: "function"}
			}
		}
	}
	return nil
}
