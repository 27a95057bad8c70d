package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/parser"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
)

func parse(t *testing.T, path, src string) *syntax.Tree {
	t.Helper()
	loader, err := parser.NewGrammarLoader()
	require.NoError(t, err)
	tree, err := parser.NewParser(loader).Parse(path, []byte(src))
	require.NoError(t, err)
	return tree
}

func walk(t *testing.T, rule extract.Rule, path, src string) []snippet.Snippet {
	t.Helper()
	out, err := extract.Walk(parse(t, path, src), rule, extract.DefaultMaxDepth)
	require.NoError(t, err)
	return out
}

func withPrefix(t *testing.T, snips []snippet.Snippet, prefix string) snippet.Snippet {
	t.Helper()
	for _, s := range snips {
		if strings.HasPrefix(s.Content, prefix) {
			return s
		}
	}
	require.FailNowf(t, "snippet not found", "no snippet starts with %q", prefix)
	return snippet.Snippet{}
}

func TestSelect(t *testing.T) {
	all, err := Select(nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(Names()))

	only, err := Select([]string{"lambda", "iterator"}, nil)
	require.NoError(t, err)
	require.Len(t, only, 2)
	assert.Equal(t, "iterator", only[0].Name(), "Default order is kept")

	rest, err := Select(nil, []string{"lambda"})
	require.NoError(t, err)
	assert.Len(t, rest, len(Names())-1)

	_, err = Select([]string{"nope"}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestControlStructure_JavaScript(t *testing.T) {
	src := `function f(a) {
  if (a > 1) {
    go();
  } else if (a < 0) {
    stop();
  } else {
    wait();
  }
  for (let i = 0; i < 3; i++) { tick(i); }
  switch (a) { case 1: one(); break; case 2: two(); break; default: none(); }
}
`
	got := walk(t, ControlStructure{}, "f.js", src)
	require.Len(t, got, 3, "the else-if belongs to its chain")

	ifs := withPrefix(t, got, "if (a > 1)")
	assert.Equal(t, snippet.TypeControlStructure, ifs.Classification.SnippetType)
	assert.Equal(t, "if", ifs.Metadata.Control.Construct)
	assert.Equal(t, 3, ifs.Metadata.Control.Branches)
	assert.Equal(t, "f", *ifs.Classification.Context.ParentFunction)

	loop := withPrefix(t, got, "for (")
	assert.True(t, loop.Metadata.Control.IsLoop)

	sw := withPrefix(t, got, "switch (a)")
	assert.Equal(t, 3, sw.Metadata.Control.Branches)
}

func TestControlStructure_GoElseIf(t *testing.T) {
	src := "package main\n\nfunc f(a int) {\n\tif a > 1 {\n\t\tgo1()\n\t} else if a < 0 {\n\t\tgo2()\n\t}\n}\n"
	got := walk(t, ControlStructure{}, "f.go", src)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Metadata.Control.Branches)
}

func TestErrorHandling(t *testing.T) {
	t.Run("javascript try", func(t *testing.T) {
		src := "try {\n  risky();\n} catch (e) {\n  log(e);\n  throw e;\n} finally {\n  cleanup();\n}\n"
		got := walk(t, ErrorHandling{}, "a.js", src)
		require.Len(t, got, 2)
		info := withPrefix(t, got, "try").Metadata.ErrorHandling
		assert.Equal(t, "try_catch", info.Idiom)
		assert.True(t, info.HasCatch)
		assert.True(t, info.HasFinally)
		assert.True(t, info.Rethrows)
		assert.Equal(t, "throw", withPrefix(t, got, "throw e").Metadata.ErrorHandling.Idiom)
	})

	t.Run("python try", func(t *testing.T) {
		src := "try:\n    risky()\nexcept ValueError:\n    raise\n"
		got := walk(t, ErrorHandling{}, "a.py", src)
		info := withPrefix(t, got, "try:").Metadata.ErrorHandling
		assert.True(t, info.HasCatch)
		assert.False(t, info.HasFinally)
		assert.True(t, info.Rethrows)
	})

	t.Run("go err check", func(t *testing.T) {
		src := "package main\n\nfunc run() error {\n\tif err := step(); err != nil {\n\t\treturn err\n\t}\n\tif ok {\n\t\tdone()\n\t}\n\treturn nil\n}\n"
		got := walk(t, ErrorHandling{}, "a.go", src)
		require.Len(t, got, 1)
		info := got[0].Metadata.ErrorHandling
		assert.Equal(t, "err_check", info.Idiom)
		assert.True(t, info.Rethrows)
		assert.Equal(t, "run", *got[0].Classification.Context.ParentFunction)
	})

	t.Run("javascript if is not an err check", func(t *testing.T) {
		got := walk(t, ErrorHandling{}, "a.js", "if (err != nil) { bail(); }\n")
		assert.Empty(t, got)
	})
}

func TestDecorator(t *testing.T) {
	t.Run("python", func(t *testing.T) {
		src := "@app.route(\"/users\")\n@login_required\ndef users():\n    return list_users()\n"
		got := walk(t, Decorator{}, "a.py", src)
		require.Len(t, got, 1)
		info := got[0].Metadata.Decorator
		assert.Equal(t, []string{"app.route", "login_required"}, info.Names)
		assert.Equal(t, "function_definition", info.Target)
		assert.True(t, strings.HasPrefix(got[0].Content, "@app.route"))
	})

	t.Run("typescript", func(t *testing.T) {
		src := "@Component({ selector: \"app-root\" })\nclass AppComponent {\n  @Input() name: string;\n}\n"
		got := walk(t, Decorator{}, "a.ts", src)
		cls := withPrefix(t, got, "@Component")
		assert.Equal(t, []string{"Component"}, cls.Metadata.Decorator.Names)
		assert.Equal(t, "class_declaration", cls.Metadata.Decorator.Target)

		var member bool
		for _, s := range got {
			if len(s.Metadata.Decorator.Names) == 1 && s.Metadata.Decorator.Names[0] == "Input" {
				member = true
			}
		}
		assert.True(t, member, "member decorator reported")
	})

	t.Run("java", func(t *testing.T) {
		src := "class Svc {\n  @Override\n  public String toString() { return \"svc\"; }\n}\n"
		got := walk(t, Decorator{}, "Svc.java", src)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"Override"}, got[0].Metadata.Decorator.Names)
		assert.Equal(t, "method_declaration", got[0].Metadata.Decorator.Target)
	})

	t.Run("rust", func(t *testing.T) {
		src := "#[derive(Debug, Clone)]\nstruct Point { x: i32 }\n"
		got := walk(t, Decorator{}, "a.rs", src)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"derive"}, got[0].Metadata.Decorator.Names)
		assert.Equal(t, "struct_item", got[0].Metadata.Decorator.Target)
	})
}

func TestLambda(t *testing.T) {
	src := "const add = (a, b) => a + b;\nconst run = async function (x) { await go(x); };\n"
	got := walk(t, Lambda{}, "a.js", src)
	require.Len(t, got, 2)

	arrow := withPrefix(t, got, "(a, b)").Metadata.Function
	assert.Equal(t, 2, arrow.Parameters)
	assert.True(t, arrow.IsArrow)
	assert.True(t, arrow.ExpressionBody)

	fn := withPrefix(t, got, "async function").Metadata.Function
	assert.True(t, fn.IsAsync)
	assert.False(t, fn.IsArrow)
	assert.False(t, fn.ExpressionBody)
	assert.Equal(t, 1, fn.AwaitCount)
	assert.Equal(t, 1, fn.Parameters)
}

func TestLambda_OtherLanguages(t *testing.T) {
	py := walk(t, Lambda{}, "a.py", "f = lambda x, y: x + y\n")
	require.Len(t, py, 1)
	assert.Equal(t, 2, py[0].Metadata.Function.Parameters)
	assert.True(t, py[0].Metadata.Function.ExpressionBody)

	goSrc := "package main\n\nvar f = func(a int) int { return a }\n"
	gl := walk(t, Lambda{}, "a.go", goSrc)
	require.Len(t, gl, 1)
	assert.Equal(t, 1, gl[0].Metadata.Function.Parameters)
	assert.False(t, gl[0].Metadata.Function.ExpressionBody)
}

func TestAsyncPattern(t *testing.T) {
	src := "async function load(url) {\n  const res = await fetch(url);\n  return res.json();\n}\nfetch(u).then(r => r.json()).catch(err => log(err));\n"
	got := walk(t, AsyncPattern{}, "a.js", src)
	require.Len(t, got, 3)

	fn := withPrefix(t, got, "async function load").Metadata.Function
	assert.True(t, fn.IsAsync)
	assert.Equal(t, 1, fn.AwaitCount)
	assert.Equal(t, 1, fn.Parameters)

	stmt := withPrefix(t, got, "const res")
	assert.Equal(t, 1, stmt.Metadata.Function.AwaitCount)
	assert.Equal(t, "load", *stmt.Classification.Context.ParentFunction)

	chain := withPrefix(t, got, "fetch(u)").Metadata.Function
	assert.Equal(t, []string{"then", "catch"}, chain.PromiseChain)
	assert.False(t, chain.IsAsync)
}

func TestAsyncPattern_Python(t *testing.T) {
	src := "async def load(url):\n    return await fetch(url)\n"
	got := walk(t, AsyncPattern{}, "a.py", src)
	fn := withPrefix(t, got, "async def").Metadata.Function
	assert.True(t, fn.IsAsync)
	assert.Equal(t, 1, fn.AwaitCount)
}

func TestDestructuring(t *testing.T) {
	src := "const { a, b: renamed } = props;\nconst [first, ...rest] = items;\nconst plain = 1;\n"
	got := walk(t, Destructuring{}, "a.js", src)
	require.Len(t, got, 2)

	obj := withPrefix(t, got, "const { a")
	assert.Equal(t, "object", obj.Metadata.Extra["pattern"])
	assert.Equal(t, "2", obj.Metadata.Extra["bindings"])
	assert.Equal(t, "props", obj.Metadata.Extra["source"])

	arr := withPrefix(t, got, "const [first")
	assert.Equal(t, "array", arr.Metadata.Extra["pattern"])

	py := walk(t, Destructuring{}, "a.py", "a, b = pair()\n")
	require.Len(t, py, 1)
	assert.Equal(t, "tuple", py[0].Metadata.Extra["pattern"])
	assert.Equal(t, "pair()", py[0].Metadata.Extra["source"])
}

func TestIterator(t *testing.T) {
	src := "const out = items.filter(x => x > 1).map(x => x * 2);\nfunction* gen() { yield 1; yield 2; }\n"
	got := walk(t, Iterator{}, "a.js", src)
	require.Len(t, got, 2, "only the outermost call of a chain")

	chain := withPrefix(t, got, "items.filter")
	assert.Equal(t, "method_chain", chain.Metadata.Extra["pattern"])
	assert.Equal(t, "filter,map", chain.Metadata.Extra["methods"])

	gen := withPrefix(t, got, "function* gen")
	assert.Equal(t, "generator", gen.Metadata.Extra["pattern"])
	assert.Equal(t, "2", gen.Metadata.Extra["yields"])

	py := walk(t, Iterator{}, "a.py", "squares = [x * x for x in nums]\n\ndef gen():\n    yield 1\n")
	require.Len(t, py, 2)
	assert.Equal(t, "list", withPrefix(t, py, "[x * x").Metadata.Extra["form"])
	assert.Equal(t, "generator", withPrefix(t, py, "def gen").Metadata.Extra["pattern"])
}

func TestFramework_React(t *testing.T) {
	src := "function Counter() {\n  const [count, setCount] = useState(0);\n  useEffect(() => {\n    document.title = `Count ${count}`;\n  }, [count]);\n  return count;\n}\n"
	got := walk(t, Framework{}, "a.jsx", src)
	require.Len(t, got, 2)

	effect := withPrefix(t, got, "useEffect")
	info := effect.Metadata.Framework
	assert.Equal(t, "react", info.Framework)
	assert.Equal(t, "hook", info.Pattern)
	assert.Equal(t, []string{"useEffect"}, info.Hooks)
	assert.Equal(t, 4, effect.Classification.Complexity, "three lines plus one hook")
	assert.Equal(t, "Counter", *effect.Classification.Context.ParentFunction)
}

func TestFramework_ExpressAndVue(t *testing.T) {
	src := "app.get(\"/users/:id\", (req, res) => {\n  res.json(find(req.params.id));\n});\nrouter.use(authMiddleware);\nconst count = ref(0);\nfoo.get(\"/x\");\n"
	got := walk(t, Framework{}, "a.js", src)
	require.Len(t, got, 3)

	route := withPrefix(t, got, "app.get").Metadata.Framework
	assert.Equal(t, "express", route.Framework)
	assert.Equal(t, "GET", route.RouteMethod)
	assert.Equal(t, "/users/:id", route.RoutePath)

	mw := withPrefix(t, got, "router.use").Metadata.Framework
	assert.Equal(t, "middleware", mw.Pattern)

	assert.Equal(t, "vue", withPrefix(t, got, "ref(0)").Metadata.Framework.Framework)
}

func TestFramework_AngularAndPython(t *testing.T) {
	ts := walk(t, Framework{}, "a.ts", "@Component({ selector: \"app-root\" })\nclass AppComponent {}\n")
	require.Len(t, ts, 1)
	assert.Equal(t, "angular", ts[0].Metadata.Framework.Framework)
	assert.Equal(t, "component", ts[0].Metadata.Framework.Pattern)

	py := walk(t, Framework{}, "a.py", "@app.get(\"/items\")\ndef items():\n    return []\n\n@app.route(\"/users\")\ndef users():\n    return []\n")
	require.Len(t, py, 2)
	fast := withPrefix(t, py, "@app.get").Metadata.Framework
	assert.Equal(t, "fastapi", fast.Framework)
	assert.Equal(t, "GET", fast.RouteMethod)
	assert.Equal(t, "/items", fast.RoutePath)
	assert.Equal(t, "flask", withPrefix(t, py, "@app.route").Metadata.Framework.Framework)
}

func TestTestCase(t *testing.T) {
	t.Run("jest", func(t *testing.T) {
		src := "describe(\"math\", () => {\n  it(\"adds\", () => {\n    expect(add(1, 2)).toBe(3);\n  });\n  test.skip(\"subtracts\", () => {});\n});\n"
		got := walk(t, TestCase{}, "math.test.js", src)
		require.Len(t, got, 3)
		assert.Equal(t, "describe", withPrefix(t, got, "describe").Metadata.Test.Block)
		it := withPrefix(t, got, "it(").Metadata.Test
		assert.Equal(t, "adds", it.Name)
		assert.Equal(t, "jest", it.Framework)
		skip := withPrefix(t, got, "test.skip").Metadata.Test
		assert.Equal(t, "test", skip.Block)
		assert.Equal(t, "subtracts", skip.Name)
	})

	t.Run("pytest", func(t *testing.T) {
		got := walk(t, TestCase{}, "test_math.py", "def test_addition():\n    assert add(1, 2) == 3\n\ndef helper():\n    pass\n")
		require.Len(t, got, 1)
		assert.Equal(t, "test_addition", got[0].Metadata.Test.Name)
	})

	t.Run("go", func(t *testing.T) {
		src := "package m\n\nimport \"testing\"\n\nfunc TestAdd(t *testing.T) {\n\tif add(1, 2) != 3 {\n\t\tt.Fatal(\"bad\")\n\t}\n}\n\nfunc Total() int { return 0 }\n"
		got := walk(t, TestCase{}, "m_test.go", src)
		require.Len(t, got, 1)
		assert.Equal(t, "go_testing", got[0].Metadata.Test.Framework)
		assert.Equal(t, "TestAdd", got[0].Metadata.Test.Name)
	})

	t.Run("junit", func(t *testing.T) {
		src := "class MathTest {\n  @Test\n  void adds() { assertEquals(3, add(1, 2)); }\n}\n"
		got := walk(t, TestCase{}, "MathTest.java", src)
		require.Len(t, got, 1)
		assert.Equal(t, "adds", got[0].Metadata.Test.Name)
	})

	t.Run("rust", func(t *testing.T) {
		src := "#[test]\nfn adds() {\n    assert_eq!(add(1, 2), 3);\n}\n\nfn helper() {}\n"
		got := walk(t, TestCase{}, "lib.rs", src)
		require.Len(t, got, 1)
		assert.Equal(t, "rust_test", got[0].Metadata.Test.Framework)
	})
}

func TestClassDefinition(t *testing.T) {
	src := "export class Foo extends Bar {\n  constructor() { super(); }\n  baz() { return 1; }\n}\nclass Local {}\n"
	got := walk(t, ClassDefinition{}, "a.js", src)
	require.Len(t, got, 2)

	foo := withPrefix(t, got, "class Foo")
	info := foo.Metadata.Class
	assert.Equal(t, "Foo", info.Name)
	assert.Equal(t, 2, info.Methods)
	assert.True(t, info.HasSuper)
	assert.True(t, info.IsExported)
	assert.Equal(t, []string{"Foo"}, foo.Exports)

	local := withPrefix(t, got, "class Local")
	assert.False(t, local.Metadata.Class.IsExported)
	assert.Empty(t, local.Exports)

	py := walk(t, ClassDefinition{}, "a.py", "class Repo(Base):\n    def get(self):\n        return 1\n\n    @property\n    def name(self):\n        return \"x\"\n")
	require.Len(t, py, 1)
	assert.Equal(t, 2, py[0].Metadata.Class.Methods)
	assert.True(t, py[0].Metadata.Class.HasSuper)
}

func TestDefault_EndToEnd(t *testing.T) {
	src := `import { useState } from "react";

export function Panel({ items }) {
  const [open, setOpen] = useState(false);
  const visible = items.filter(item => item.enabled).map(item => item.label);
  try {
    if (open && visible.length > 0) {
      render(visible);
    }
  } catch (err) {
    console.error(err);
  }
  return visible;
}
`
	tree := parse(t, "panel.jsx", src)
	e, err := extract.NewEngine(extract.DefaultConfig(), Default()...)
	require.NoError(t, err)

	res := e.Run(tree)
	assert.Empty(t, res.Failures)
	require.NotEmpty(t, res.Snippets)

	seen := map[string]bool{}
	for _, s := range res.Snippets {
		assert.True(t, s.Classification.SnippetType.Valid())
		assert.Equal(t, s.Content, src[s.StartByte:s.EndByte])
		assert.False(t, seen[s.Content], "duplicate content %q", s.Content)
		seen[s.Content] = true
		assert.GreaterOrEqual(t, s.Classification.Complexity, 1)
		assert.LessOrEqual(t, s.Classification.Complexity, 15)
	}

	tryBlock := withPrefix(t, res.Snippets, "try {")
	assert.Equal(t, snippet.TypeErrorHandling, tryBlock.Classification.SnippetType)
	assert.Equal(t, "Panel", *tryBlock.Classification.Context.ParentFunction)

	again := e.Run(parse(t, "panel.jsx", src))
	assert.Equal(t, res.Snippets, again.Snippets)
}
