package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipex/internal/core/config"
)

func TestScanner_Scan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go":                goSample,
		"a_test.go":           goSample,
		"web/app.js":          "const x = 1;\n",
		"web/app.min.js":      "const x=1;\n",
		"vendor/dep/dep.go":   goSample,
		"node_modules/m/i.js": "module.exports = {};\n",
		"README.md":           "# readme\n",
		"scripts/tool.py":     "def main():\n    pass\n",
	})

	s, err := NewScanner(newTestParser(t), config.Scan{
		ExcludeDirs:  []string{"vendor", "node_modules"},
		ExcludeFiles: []string{"*.min.js"},
	})
	require.NoError(t, err)

	files, err := s.Scan([]string{root, root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "scripts", "tool.py"),
		filepath.Join(root, "web", "app.js"),
	}, files)
}

func TestScanner_Filters(t *testing.T) {
	p := newTestParser(t)

	withTests, err := NewScanner(p, config.Scan{IncludeTests: true, Languages: []string{"go"}})
	require.NoError(t, err)
	assert.True(t, withTests.Accept("pkg/a_test.go"))
	assert.True(t, withTests.Accept("pkg/a.go"))
	assert.False(t, withTests.Accept("web/app.js"), "language not selected")

	plain, err := NewScanner(p, config.Scan{})
	require.NoError(t, err)
	assert.False(t, plain.Accept("pkg/a_test.go"))
	assert.False(t, plain.Accept("notes.txt"))
	assert.True(t, plain.Accept("web/app.tsx"))
}

func TestScanner_SingleFileRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"main.go": goSample})
	s, err := NewScanner(newTestParser(t), config.Scan{})
	require.NoError(t, err)

	files, err := s.Scan([]string{filepath.Join(root, "main.go")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "main.go")}, files)
}

func TestScanner_MissingRoot(t *testing.T) {
	s, err := NewScanner(newTestParser(t), config.Scan{})
	require.NoError(t, err)
	_, err = s.Scan([]string{filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestUniqueScanRoots(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, UniqueScanRoots([]string{"b", "./a", "a/", "b"}))
}

func TestIsGeneratedFile(t *testing.T) {
	assert.True(t, IsGeneratedFile([]byte("// Code generated by protoc-gen-go. DO NOT EDIT.\npackage x\n")))
	assert.True(t, IsGeneratedFile([]byte("/**\n * @generated\n */\nexport const a = 1;\n")))
	assert.False(t, IsGeneratedFile([]byte(goSample)))

	late := "package x\n\n\n\n\n\n// Code generated later\n"
	assert.False(t, IsGeneratedFile([]byte(late)), "markers past the header are ignored")
}
