// Package extract is the rule-execution engine: the rule contract, bounded
// traversal, scope resolution, validation, deduplication, and the coordinator
// that isolates rule failures.
package extract

import (
	"snipex/internal/core/errors"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

// Rule recognises one pattern family. Rules are stateless across calls and
// must not mutate the tree.
type Rule interface {
	Name() string
	// SupportedKinds lists the node kinds Build may be called for.
	SupportedKinds() []string
	IsValid(n syntax.Ref) bool
	// Build returns nil, nil to decline a node after closer inspection. Walk
	// resolves the snippet's context from n with its own depth bound.
	Build(n syntax.Ref, nesting int) (*snippet.Snippet, error)
}

// Extractor is implemented by rules that need their own traversal. The
// coordinator calls Extract instead of Walk for them.
type Extractor interface {
	Extract(tree *syntax.Tree) ([]snippet.Snippet, error)
}

// Walk runs rule over tree in pre-order. Branches deeper than maxDepth are not
// descended, which also bounds recursion on pathological trees. The first
// Build error aborts the walk.
func Walk(tree *syntax.Tree, rule Rule, maxDepth int) ([]snippet.Snippet, error) {
	w := walker{
		rule:     rule,
		kinds:    kindSet(rule.SupportedKinds()),
		maxDepth: maxDepth,
		out:      []snippet.Snippet{},
	}
	if err := w.visit(tree.RootRef(), 0, 0); err != nil {
		return nil, err
	}
	return w.out, nil
}

type walker struct {
	rule     Rule
	kinds    map[string]bool
	maxDepth int
	out      []snippet.Snippet
}

func (w *walker) visit(n syntax.Ref, nesting, depth int) error {
	if !n.Valid() || depth > w.maxDepth {
		return nil
	}

	if w.kinds[n.Kind()] && w.rule.IsValid(n) {
		s, err := w.rule.Build(n, nesting)
		if err != nil {
			wrapped := errors.Wrap(err, errors.CodeRuleFailure, "build failed")
			return errors.AddContext(wrapped, errors.CtxNodeKind, n.Kind())
		}
		if s != nil {
			s.Classification.Context = ResolveContext(n, nesting, w.maxDepth, defaultScopes)
			w.out = append(w.out, *s)
		}
	}

	for i := 0; i < n.ChildCount(); i++ {
		if err := w.visit(n.Child(i), nesting+1, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func kindSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}
