// Package syntax holds the read-only syntax tree consumed by the extraction
// engine. Nodes live in an arena owned by Tree and refer to each other by
// NodeID, so upward walks never chase pointers.
package syntax

// NodeID indexes a node inside its Tree.
type NodeID int32

// NoNode marks a missing node (the root's parent, a failed lookup).
const NoNode NodeID = -1

// Node is one syntax tree node. Lines and columns are 1-based; columns count
// bytes, matching tree-sitter points.
type Node struct {
	Kind      string
	Field     string // field name under the parent, e.g. "name" or "body"
	Named     bool
	StartByte uint32
	EndByte   uint32
	StartLine uint32
	EndLine   uint32
	StartCol  uint32
	EndCol    uint32
	Parent    NodeID
	Children  []NodeID
}

// Tree owns the node arena and the exact source text the spans index into.
type Tree struct {
	nodes    []Node
	source   string
	language string
}

// Root returns the root node id, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if t == nil || len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// RootRef returns a handle to the root node.
func (t *Tree) RootRef() Ref {
	return Ref{tree: t, id: t.Root()}
}

// Len reports the number of nodes in the arena.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Source returns the text the tree was built from.
func (t *Tree) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Language returns the language id recorded by the producer, if any.
func (t *Tree) Language() string {
	if t == nil {
		return ""
	}
	return t.language
}

// Node returns the node for id. The returned pointer must not be mutated.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Ref returns a handle to id.
func (t *Tree) Ref(id NodeID) Ref {
	return Ref{tree: t, id: id}
}

// Text returns the source substring spanned by id.
func (t *Tree) Text(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	assertSpan(t, n)
	return t.source[n.StartByte:n.EndByte]
}
