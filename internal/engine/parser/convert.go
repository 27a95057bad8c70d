package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"snipex/internal/engine/syntax"
)

// ConvertOptions controls which tree-sitter nodes reach the arena.
type ConvertOptions struct {
	// Anonymous keeps punctuation and keyword tokens. Rules only need named
	// nodes, so this is off by default.
	Anonymous bool
}

// Convert copies the tree below root into an arena tree. The copy is
// iterative, so grammar nesting depth never grows the Go stack.
func Convert(root *sitter.Node, source []byte, language string, opts ConvertOptions) *syntax.Tree {
	b := syntax.NewBuilder(string(source), language)
	if root == nil {
		return b.Build()
	}

	cursor := root.Walk()
	defer cursor.Close()

	// stack[i] is the arena id that children at cursor depth i+1 attach to.
	stack := make([]syntax.NodeID, 0, 64)
	for {
		n := cursor.Node()
		parent := syntax.NoNode
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		self := parent
		if parent == syntax.NoNode || n.IsNamed() || opts.Anonymous {
			self = b.AddNode(parent, nodeFrom(n, cursor.FieldName()))
		}
		stack = append(stack, self)

		if cursor.GotoFirstChild() {
			continue
		}
		for {
			stack = stack[:len(stack)-1]
			if cursor.GotoNextSibling() {
				break
			}
			if !cursor.GotoParent() {
				return b.Build()
			}
		}
	}
}

func nodeFrom(n *sitter.Node, field string) syntax.Node {
	start := n.StartPosition()
	end := n.EndPosition()
	return syntax.Node{
		Kind:      n.Kind(),
		Field:     field,
		Named:     n.IsNamed(),
		StartByte: uint32(n.StartByte()),
		EndByte:   uint32(n.EndByte()),
		StartLine: uint32(start.Row) + 1,
		EndLine:   uint32(end.Row) + 1,
		StartCol:  uint32(start.Column) + 1,
		EndCol:    uint32(end.Column) + 1,
	}
}
