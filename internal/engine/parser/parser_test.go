// # internal/engine/parser/parser_test.go
package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/syntax"
)

func newTestParser(t *testing.T, langs ...string) *Parser {
	t.Helper()
	loader, err := NewGrammarLoader(langs...)
	require.NoError(t, err)
	return NewParser(loader)
}

func findKind(tree *syntax.Tree, kind string) syntax.Ref {
	for i := 0; i < tree.Len(); i++ {
		r := tree.Ref(syntax.NodeID(i))
		if r.Kind() == kind {
			return r
		}
	}
	return syntax.Ref{}
}

func TestGrammarLoader_UnknownLanguage(t *testing.T) {
	_, err := NewGrammarLoader("cobol")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestGrammarLoader_LoadsAllByDefault(t *testing.T) {
	loader, err := NewGrammarLoader()
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "java", "javascript", "python", "rust", "tsx", "typescript"}, loader.Languages())
	assert.Contains(t, loader.SupportedExtensions(), ".tsx")
}

func TestParser_DetectLanguage(t *testing.T) {
	p := newTestParser(t)
	cases := map[string]string{
		"main.go":           "go",
		"src/app.JSX":       "javascript",
		"lib/index.ts":      "typescript",
		"ui/Button.tsx":     "tsx",
		"tool.py":           "python",
		"Main.java":         "java",
		"lib.rs":            "rust",
		"types/global.d.ts": "",
		"README.md":         "",
	}
	for path, want := range cases {
		assert.Equal(t, want, p.DetectLanguage(path), path)
	}
}

func TestParser_IsTestFile(t *testing.T) {
	p := newTestParser(t)
	assert.True(t, p.IsTestFile("pkg/foo_test.go"))
	assert.True(t, p.IsTestFile("src/button.spec.tsx"))
	assert.True(t, p.IsTestFile("tests/test_models.py"))
	assert.True(t, p.IsTestFile("src/UserServiceTest.java"))
	assert.False(t, p.IsTestFile("src/button.tsx"))
}

func TestParser_UnsupportedPath(t *testing.T) {
	p := newTestParser(t, "go")
	_, err := p.Parse("script.py", []byte("x = 1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
	assert.Contains(t, err.Error(), "path=script.py")

	_, err = p.ParseLanguage("python", []byte("x = 1\n"))
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestParser_ConvertsPositionsAndFields(t *testing.T) {
	p := newTestParser(t, "javascript")
	src := "class Foo {\n  bar() {\n    if (x) { y(); }\n  }\n}\n"
	tree, err := p.Parse("foo.js", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "program", tree.RootRef().Kind())
	assert.Equal(t, "javascript", tree.Language())
	assert.Equal(t, src, tree.Source())

	cls := findKind(tree, "class_declaration")
	require.True(t, cls.Valid())
	assert.Equal(t, "Foo", cls.ChildByField("name").Text())

	ifStmt := findKind(tree, "if_statement")
	require.True(t, ifStmt.Valid())
	assert.Equal(t, "if (x) { y(); }", ifStmt.Text())
	sp := ifStmt.Span()
	assert.Equal(t, uint32(3), sp.StartLine)
	assert.Equal(t, uint32(3), sp.EndLine)
	n := tree.Node(ifStmt.ID())
	assert.Equal(t, uint32(5), n.StartCol)

	for i := 0; i < tree.Len(); i++ {
		assert.True(t, tree.Node(syntax.NodeID(i)).Named, "anonymous nodes are dropped by default")
	}
}

func TestParser_ClassMethodContext(t *testing.T) {
	p := newTestParser(t, "javascript")
	tree, err := p.Parse("foo.js", []byte("class Foo { bar() { if (x) { y(); } } }"))
	require.NoError(t, err)

	ifStmt := findKind(tree, "if_statement")
	require.True(t, ifStmt.Valid())
	ctx := extract.ResolveContext(ifStmt, 0, extract.DefaultMaxDepth, extract.DefaultScopes())
	require.NotNil(t, ctx.ParentFunction)
	require.NotNil(t, ctx.ParentClass)
	assert.Equal(t, "bar", *ctx.ParentFunction)
	assert.Equal(t, "Foo", *ctx.ParentClass)
}

func TestParser_AnonymousNodes(t *testing.T) {
	p := newTestParser(t, "javascript").WithOptions(ConvertOptions{Anonymous: true})
	tree, err := p.Parse("a.js", []byte("a + b;"))
	require.NoError(t, err)
	assert.True(t, findKind(tree, "+").Valid())
}

func TestParser_DeepNestingIsIterative(t *testing.T) {
	p := newTestParser(t, "javascript")
	const depth = 2000
	src := "x = " + strings.Repeat("[", depth) + strings.Repeat("]", depth) + ";"
	tree, err := p.Parse("deep.js", []byte(src))
	require.NoError(t, err)
	assert.Greater(t, tree.Len(), depth)
}

func TestParser_EveryLanguageParses(t *testing.T) {
	p := newTestParser(t)
	sources := map[string]string{
		"a.go":   "package a\n\nfunc A() {}\n",
		"a.py":   "def a():\n    return 1\n",
		"a.js":   "function a() { return 1; }\n",
		"a.ts":   "function a(): number { return 1; }\n",
		"a.tsx":  "const A = () => <div />;\n",
		"A.java": "class A { void a() {} }\n",
		"a.rs":   "fn a() -> i32 { 1 }\n",
	}
	for path, src := range sources {
		tree, err := p.Parse(path, []byte(src))
		require.NoError(t, err, path)
		assert.Greater(t, tree.Len(), 1, path)
	}
}

func TestParserPool_LeasesAreTracked(t *testing.T) {
	loader, err := NewGrammarLoader("go")
	require.NoError(t, err)
	lang, ok := loader.Language("go")
	require.True(t, ok)

	pool := NewParserPool(lang)
	sp := pool.Get()
	require.NotNil(t, sp)
	assert.Equal(t, 1, pool.Active())

	tree := sp.Parse([]byte("package main\n"), nil)
	require.NotNil(t, tree)
	assert.False(t, tree.RootNode().HasError())
	tree.Close()

	pool.Put(sp)
	assert.Equal(t, 0, pool.Active())
	pool.Put(nil)
}
