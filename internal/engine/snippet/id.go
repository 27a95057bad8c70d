package snippet

import (
	"strconv"

	"github.com/google/uuid"
)

// idNamespace scopes snippet ids so they never collide with other UUIDv5 users.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("snipex/snippet"))

// ID derives a stable identifier from the snippet content and its first line.
func ID(content string, startLine uint32) string {
	data := make([]byte, 0, len(content)+12)
	data = strconv.AppendUint(data, uint64(startLine), 10)
	data = append(data, 0)
	data = append(data, content...)
	return uuid.NewSHA1(idNamespace, data).String()
}

// New returns a snippet with id, kind, and empty import/export lists filled in.
func New(content string, span Span, typ Type) Snippet {
	return Snippet{
		ID:      ID(content, span.StartLine),
		Content: content,
		Span:    span,
		Kind:    Kind,
		Imports: []string{},
		Exports: []string{},
		Classification: Classification{
			SnippetType: typ,
			Complexity:  1,
		},
	}
}

// Normalize restores the wire invariants a rule may have disturbed: constant
// kind, non-nil lists, a complexity floor of one, and an id matching the
// current content and start line.
func (s *Snippet) Normalize() {
	s.Kind = Kind
	if s.Imports == nil {
		s.Imports = []string{}
	}
	if s.Exports == nil {
		s.Exports = []string{}
	}
	if s.Classification.Complexity < 1 {
		s.Classification.Complexity = 1
	}
	s.ID = ID(s.Content, s.StartLine)
}

// StringPtr is a small helper for optional context fields.
func StringPtr(v string) *string { return &v }
