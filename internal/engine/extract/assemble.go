package extract

import (
	"snipex/internal/engine/analysis"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

// Assemble builds a fully classified snippet covering node n. Rules call it
// from Build and then attach their metadata. Context is resolved with
// DefaultMaxDepth; Walk replaces it using the engine's bound.
func Assemble(n syntax.Ref, nesting int, typ snippet.Type) snippet.Snippet {
	sp := n.Span()
	s := snippet.New(n.Text(), snippet.Span{
		StartLine: sp.StartLine,
		EndLine:   sp.EndLine,
		StartByte: sp.StartByte,
		EndByte:   sp.EndByte,
	}, typ)
	s.Classification.Context = ResolveContext(n, nesting, DefaultMaxDepth, defaultScopes)
	Classify(&s)
	return s
}

// Classify recomputes the content-derived classification fields of s.
func Classify(s *snippet.Snippet) {
	s.Classification.Complexity = analysis.Complexity(s.Content)
	s.Classification.LanguageFeatures = analysis.Features(s.Content)
	s.Classification.HasSideEffects = analysis.HasSideEffects(s.Content)
	s.Classification.IsStandalone = analysis.IsStandalone(s.Content)
}
