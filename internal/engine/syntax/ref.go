package syntax

// Span is the byte and line extent of a node.
type Span struct {
	StartLine uint32
	EndLine   uint32
	StartByte uint32
	EndByte   uint32
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return other.StartByte >= s.StartByte && other.EndByte <= s.EndByte &&
		other.StartLine >= s.StartLine && other.EndLine <= s.EndLine
}

// Ref is a lightweight (tree, node) handle. The zero Ref is invalid and all of
// its accessors return zero values.
type Ref struct {
	tree *Tree
	id   NodeID
}

func (r Ref) node() *Node {
	if r.tree == nil {
		return nil
	}
	return r.tree.Node(r.id)
}

// Valid reports whether r points at a node.
func (r Ref) Valid() bool { return r.node() != nil }

// ID returns the arena id, or NoNode.
func (r Ref) ID() NodeID {
	if !r.Valid() {
		return NoNode
	}
	return r.id
}

// Tree returns the owning tree.
func (r Ref) Tree() *Tree { return r.tree }

func (r Ref) Kind() string {
	if n := r.node(); n != nil {
		return n.Kind
	}
	return ""
}

// Field returns the field name this node occupies under its parent.
func (r Ref) Field() string {
	if n := r.node(); n != nil {
		return n.Field
	}
	return ""
}

func (r Ref) Named() bool {
	if n := r.node(); n != nil {
		return n.Named
	}
	return false
}

// Text returns the exact source text covered by the node.
func (r Ref) Text() string {
	if !r.Valid() {
		return ""
	}
	return r.tree.Text(r.id)
}

func (r Ref) Span() Span {
	n := r.node()
	if n == nil {
		return Span{}
	}
	return Span{StartLine: n.StartLine, EndLine: n.EndLine, StartByte: n.StartByte, EndByte: n.EndByte}
}

func (r Ref) Parent() Ref {
	n := r.node()
	if n == nil || n.Parent == NoNode {
		return Ref{}
	}
	return Ref{tree: r.tree, id: n.Parent}
}

func (r Ref) ChildCount() int {
	if n := r.node(); n != nil {
		return len(n.Children)
	}
	return 0
}

func (r Ref) Child(i int) Ref {
	n := r.node()
	if n == nil || i < 0 || i >= len(n.Children) {
		return Ref{}
	}
	return Ref{tree: r.tree, id: n.Children[i]}
}

// NextSibling returns the child of r's parent that follows r.
func (r Ref) NextSibling() Ref {
	p := r.Parent()
	pn := p.node()
	if pn == nil {
		return Ref{}
	}
	for i, id := range pn.Children {
		if id == r.id {
			return p.Child(i + 1)
		}
	}
	return Ref{}
}

// PrevSibling returns the child of r's parent that precedes r.
func (r Ref) PrevSibling() Ref {
	p := r.Parent()
	pn := p.node()
	if pn == nil {
		return Ref{}
	}
	for i, id := range pn.Children {
		if id == r.id {
			return p.Child(i - 1)
		}
	}
	return Ref{}
}

// ChildrenByField returns every child stored under field, in order.
func (r Ref) ChildrenByField(field string) []Ref {
	n := r.node()
	if n == nil {
		return nil
	}
	var out []Ref
	for _, id := range n.Children {
		if r.tree.nodes[id].Field == field {
			out = append(out, Ref{tree: r.tree, id: id})
		}
	}
	return out
}

// ChildByField returns the first child stored under field.
func (r Ref) ChildByField(field string) Ref {
	n := r.node()
	if n == nil {
		return Ref{}
	}
	for _, id := range n.Children {
		if r.tree.nodes[id].Field == field {
			return Ref{tree: r.tree, id: id}
		}
	}
	return Ref{}
}

// ChildByKind returns the first direct child of the given kind.
func (r Ref) ChildByKind(kind string) Ref {
	n := r.node()
	if n == nil {
		return Ref{}
	}
	for _, id := range n.Children {
		if r.tree.nodes[id].Kind == kind {
			return Ref{tree: r.tree, id: id}
		}
	}
	return Ref{}
}

// HasDescendant reports whether any node below r (within maxDepth levels)
// has one of kinds.
func (r Ref) HasDescendant(maxDepth int, kinds ...string) bool {
	found := false
	r.walkBounded(0, maxDepth, func(n Ref) bool {
		for _, k := range kinds {
			if n.Kind() == k {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// CountDescendants counts nodes below r (within maxDepth levels) of kind.
func (r Ref) CountDescendants(maxDepth int, kind string) int {
	count := 0
	r.walkBounded(0, maxDepth, func(n Ref) bool {
		if n.Kind() == kind {
			count++
		}
		return true
	})
	return count
}

func (r Ref) walkBounded(depth, maxDepth int, visit func(Ref) bool) bool {
	if depth >= maxDepth {
		return true
	}
	for i := 0; i < r.ChildCount(); i++ {
		child := r.Child(i)
		if !visit(child) {
			return false
		}
		if !child.walkBounded(depth+1, maxDepth, visit) {
			return false
		}
	}
	return true
}
