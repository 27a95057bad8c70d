// Package snippet defines the extracted artifact handed to downstream indexers.
package snippet

// Kind is the artifact discriminator; only snippets exist today.
const Kind = "snippet"

// Type identifies the rule family that produced a snippet.
type Type string

const (
	TypeControlStructure Type = "control_structure"
	TypeErrorHandling    Type = "error_handling"
	TypeDecorator        Type = "decorator_pattern"
	TypeLambda           Type = "lambda_expression"
	TypeAsync            Type = "async_pattern"
	TypeDestructuring    Type = "destructuring_pattern"
	TypeIterator         Type = "iterator_pattern"
	TypeFramework        Type = "framework_pattern"
	TypeTest             Type = "test_pattern"
	TypeClass            Type = "class_definition"
)

var knownTypes = map[Type]bool{
	TypeControlStructure: true,
	TypeErrorHandling:    true,
	TypeDecorator:        true,
	TypeLambda:           true,
	TypeAsync:            true,
	TypeDestructuring:    true,
	TypeIterator:         true,
	TypeFramework:        true,
	TypeTest:             true,
	TypeClass:            true,
}

// Valid reports whether t is one of the closed set of snippet types.
func (t Type) Valid() bool { return knownTypes[t] }

// Span locates a snippet in its source file. Lines are 1-based.
type Span struct {
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
}

type Snippet struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Span
	Kind           string         `json:"kind"`
	Imports        []string       `json:"imports"`
	Exports        []string       `json:"exports"`
	Metadata       Metadata       `json:"metadata"`
	Classification Classification `json:"classification"`
}

type Classification struct {
	SnippetType      Type             `json:"snippet_type"`
	Context          Context          `json:"context"`
	LanguageFeatures LanguageFeatures `json:"language_features"`
	Complexity       int              `json:"complexity"`
	IsStandalone     bool             `json:"is_standalone"`
	HasSideEffects   bool             `json:"has_side_effects"`
}

// Context records where a snippet sits relative to its enclosing scopes.
type Context struct {
	NestingLevel   uint32  `json:"nesting_level"`
	ParentFunction *string `json:"parent_function,omitempty"`
	ParentClass    *string `json:"parent_class,omitempty"`
}

type LanguageFeatures struct {
	UsesAsync            bool `json:"uses_async"`
	UsesGenerators       bool `json:"uses_generators"`
	UsesDestructuring    bool `json:"uses_destructuring"`
	UsesSpread           bool `json:"uses_spread"`
	UsesTemplateLiterals bool `json:"uses_template_literals"`
}

// Metadata carries rule-specific payloads. At most a few fields are set for
// any given snippet; the engine never reads them.
type Metadata struct {
	Control       *ControlInfo       `json:"control,omitempty"`
	ErrorHandling *ErrorHandlingInfo `json:"error_handling,omitempty"`
	Decorator     *DecoratorInfo     `json:"decorator,omitempty"`
	Function      *FunctionInfo      `json:"function,omitempty"`
	Framework     *FrameworkInfo     `json:"framework,omitempty"`
	Test          *TestInfo          `json:"test,omitempty"`
	Class         *ClassInfo         `json:"class,omitempty"`
	Extra         map[string]string  `json:"extra,omitempty"`
}

type ControlInfo struct {
	Construct string `json:"construct"`
	Branches  int    `json:"branches"`
	IsLoop    bool   `json:"is_loop"`
}

type ErrorHandlingInfo struct {
	Idiom      string `json:"idiom"` // try_catch, throw, err_check, ...
	HasCatch   bool   `json:"has_catch"`
	HasFinally bool   `json:"has_finally"`
	Rethrows   bool   `json:"rethrows"`
}

type DecoratorInfo struct {
	Names  []string `json:"names"`
	Target string   `json:"target"`
}

type FunctionInfo struct {
	Parameters     int      `json:"parameters"`
	IsAsync        bool     `json:"is_async"`
	IsArrow        bool     `json:"is_arrow"`
	ExpressionBody bool     `json:"expression_body"`
	AwaitCount     int      `json:"await_count,omitempty"`
	PromiseChain   []string `json:"promise_chain,omitempty"`
}

type FrameworkInfo struct {
	Framework   string   `json:"framework"`
	Pattern     string   `json:"pattern"`
	Hooks       []string `json:"hooks,omitempty"`
	RouteMethod string   `json:"route_method,omitempty"`
	RoutePath   string   `json:"route_path,omitempty"`
}

type TestInfo struct {
	Framework string `json:"framework"`
	Name      string `json:"name"`
	Block     string `json:"block"` // describe, it, test, function
}

type ClassInfo struct {
	Name       string `json:"name"`
	Methods    int    `json:"methods"`
	HasSuper   bool   `json:"has_super"`
	IsExported bool   `json:"is_exported"`
}

// SetExtra stores a free-form string payload under key.
func (m *Metadata) SetExtra(key, value string) {
	if m.Extra == nil {
		m.Extra = make(map[string]string)
	}
	m.Extra[key] = value
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s Snippet) Clone() Snippet {
	out := s
	out.Imports = append([]string{}, s.Imports...)
	out.Exports = append([]string{}, s.Exports...)
	if s.Classification.Context.ParentFunction != nil {
		v := *s.Classification.Context.ParentFunction
		out.Classification.Context.ParentFunction = &v
	}
	if s.Classification.Context.ParentClass != nil {
		v := *s.Classification.Context.ParentClass
		out.Classification.Context.ParentClass = &v
	}
	out.Metadata = s.Metadata.clone()
	return out
}

func (m Metadata) clone() Metadata {
	out := Metadata{
		Control:       clonePtr(m.Control),
		ErrorHandling: clonePtr(m.ErrorHandling),
		Test:          clonePtr(m.Test),
		Class:         clonePtr(m.Class),
	}
	if m.Decorator != nil {
		d := *m.Decorator
		d.Names = cloneStrings(d.Names)
		out.Decorator = &d
	}
	if m.Function != nil {
		f := *m.Function
		f.PromiseChain = cloneStrings(f.PromiseChain)
		out.Function = &f
	}
	if m.Framework != nil {
		f := *m.Framework
		f.Hooks = cloneStrings(f.Hooks)
		out.Framework = &f
	}
	if m.Extra != nil {
		out.Extra = make(map[string]string, len(m.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneStrings keeps nil as nil so omitempty output is unchanged.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
