package syntax

// Builder assembles a Tree. Parents must be added before their children and
// children are kept in insertion order. A Builder is not safe for concurrent use.
type Builder struct {
	nodes    []Node
	source   string
	language string
	lines    *lineIndex
}

func NewBuilder(source, language string) *Builder {
	return &Builder{source: source, language: language}
}

// Add appends a named node spanning source[start:end] under parent and
// derives its line/column positions from the offsets. Pass NoNode as parent
// for the root. It returns NoNode when parent is unknown or a second root is
// attempted.
func (b *Builder) Add(parent NodeID, kind string, start, end int) NodeID {
	return b.AddField(parent, "", kind, start, end)
}

// AddField is Add with a field name recorded on the child.
func (b *Builder) AddField(parent NodeID, field, kind string, start, end int) NodeID {
	if b.lines == nil {
		idx := buildLineIndex(b.source)
		b.lines = &idx
	}
	startLine, startCol := b.lines.lineCol(start)
	endLine, endCol := b.lines.lineCol(end)
	return b.AddNode(parent, Node{
		Kind:      kind,
		Field:     field,
		Named:     true,
		StartByte: uint32(start),
		EndByte:   uint32(end),
		StartLine: startLine,
		EndLine:   endLine,
		StartCol:  startCol,
		EndCol:    endCol,
	})
}

// AddNode appends n with precomputed positions. Parent and Children on n are
// overwritten.
func (b *Builder) AddNode(parent NodeID, n Node) NodeID {
	if parent == NoNode {
		if len(b.nodes) != 0 {
			return NoNode
		}
	} else if parent < 0 || int(parent) >= len(b.nodes) {
		return NoNode
	}

	id := NodeID(len(b.nodes))
	n.Parent = parent
	n.Children = nil
	b.nodes = append(b.nodes, n)
	if parent != NoNode {
		b.nodes[parent].Children = append(b.nodes[parent].Children, id)
	}
	return id
}

// Len reports how many nodes have been added so far.
func (b *Builder) Len() int { return len(b.nodes) }

// Build freezes the builder into a Tree. The builder must not be reused.
func (b *Builder) Build() *Tree {
	t := &Tree{nodes: b.nodes, source: b.source, language: b.language}
	b.nodes = nil
	return t
}
