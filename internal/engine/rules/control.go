package rules

import (
	"snipex/internal/engine/extract"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

var controlConstructs = map[string]string{
	"if_statement":                "if",
	"if_expression":               "if",
	"for_statement":               "for",
	"for_in_statement":            "for",
	"enhanced_for_statement":      "for",
	"for_expression":              "for",
	"while_statement":             "while",
	"while_expression":            "while",
	"loop_expression":             "loop",
	"do_statement":                "do",
	"switch_statement":            "switch",
	"switch_expression":           "switch",
	"expression_switch_statement": "switch",
	"type_switch_statement":       "switch",
	"select_statement":            "select",
	"match_statement":             "match",
	"match_expression":            "match",
}

var caseKinds = []string{
	"switch_case",
	"switch_default",
	"expression_case",
	"type_case",
	"default_case",
	"communication_case",
	"case_clause",
	"match_arm",
	"switch_block_statement_group",
	"switch_rule",
}

// ControlStructure captures conditionals, loops, and multi-way branches. An
// else-if is reported as part of the chain that owns it.
type ControlStructure struct{}

func (ControlStructure) Name() string { return "control_structure" }

func (ControlStructure) SupportedKinds() []string {
	kinds := make([]string, 0, len(controlConstructs))
	for k := range controlConstructs {
		kinds = append(kinds, k)
	}
	return kinds
}

func (ControlStructure) IsValid(n syntax.Ref) bool {
	return !isElseIf(n)
}

func (ControlStructure) Build(n syntax.Ref, nesting int) (*snippet.Snippet, error) {
	s := extract.Assemble(n, nesting, snippet.TypeControlStructure)
	construct := controlConstructs[n.Kind()]
	info := &snippet.ControlInfo{Construct: construct}
	switch construct {
	case "if":
		info.Branches = ifBranches(n)
	case "switch", "match", "select":
		for _, k := range caseKinds {
			info.Branches += n.CountDescendants(2, k)
		}
	default:
		info.IsLoop = true
		info.Branches = 1
	}
	s.Metadata.Control = info
	return &s, nil
}

func isElseIf(n syntax.Ref) bool {
	if n.Kind() != "if_statement" && n.Kind() != "if_expression" {
		return false
	}
	p := n.Parent()
	if p.Kind() == "else_clause" {
		return true
	}
	return n.Field() == "alternative" && p.Kind() == n.Kind()
}

// ifBranches counts the arms of an if chain, including else-if and elif arms.
func ifBranches(n syntax.Ref) int {
	branches := 1
	cur := n
	for steps := 0; steps < extract.DefaultMaxDepth; steps++ {
		var next syntax.Ref
		for _, alt := range cur.ChildrenByField("alternative") {
			branches++
			switch {
			case alt.Kind() == cur.Kind():
				next = alt
			case alt.Kind() == "else_clause":
				if inner := alt.ChildByKind(cur.Kind()); inner.Valid() {
					next = inner
				}
			}
		}
		if !next.Valid() {
			break
		}
		cur = next
	}
	return branches
}
