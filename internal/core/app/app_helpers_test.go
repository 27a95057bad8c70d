package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"snipex/internal/engine/parser"
)

const goSample = `package sample

import "fmt"

func Check(v int) error {
	if v > 10 {
		return fmt.Errorf("too large: %d", v)
	}
	return nil
}
`

func newTestParser(t *testing.T) *parser.Parser {
	t.Helper()
	loader, err := parser.NewGrammarLoader()
	require.NoError(t, err)
	return parser.NewParser(loader)
}

// writeTree creates files relative to root and returns root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
