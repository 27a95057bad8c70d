package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/rules"
	"snipex/internal/engine/snippet"
)

func newTestBatch(t *testing.T, opts BatchOptions, cache *ResultCache) *BatchExtractor {
	t.Helper()
	if opts.Rules == nil {
		opts.Rules = rules.Default()
	}
	b, err := NewBatchExtractor(newTestParser(t), opts, cache)
	require.NoError(t, err)
	return b
}

func hasType(snips []snippet.Snippet, typ snippet.Type) bool {
	for _, s := range snips {
		if s.Classification.SnippetType == typ {
			return true
		}
	}
	return false
}

func TestBatchExtractor_Run(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := writeTree(t, map[string]string{
		"a.go":   goSample,
		"b.go":   goSample,
		"c.go":   goSample,
		"gen.go": "// Code generated by stringer. DO NOT EDIT.\n\n" + goSample,
	})
	paths := []string{
		filepath.Join(root, "c.go"),
		filepath.Join(root, "missing.go"),
		filepath.Join(root, "a.go"),
		filepath.Join(root, "gen.go"),
		filepath.Join(root, "b.go"),
	}

	b := newTestBatch(t, BatchOptions{Size: 2, Workers: 3}, nil)
	results, err := b.Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, r := range results {
		assert.Equal(t, filepath.ToSlash(paths[i]), r.Path, "input order is kept")
	}

	missing := results[1]
	require.Error(t, missing.Err)
	assert.True(t, errors.IsCode(missing.Err, errors.CodeNotFound))
	assert.NotEmpty(t, missing.Error)

	assert.True(t, results[3].Skipped)
	assert.Empty(t, results[3].Snippets)

	for _, i := range []int{0, 2, 4} {
		assert.NoError(t, results[i].Err)
		assert.Equal(t, "go", results[i].Language)
		assert.True(t, hasType(results[i].Snippets, snippet.TypeControlStructure))
	}
	assert.Equal(t, results[0].Snippets, results[2].Snippets, "same content extracts identically")
}

func TestBatchExtractor_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := writeTree(t, map[string]string{"a.go": goSample, "b.go": goSample})
	b := newTestBatch(t, BatchOptions{Workers: 1, FilesPerSecond: 1}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := b.Run(ctx, []string{filepath.Join(root, "a.go"), filepath.Join(root, "b.go")})
	assert.Error(t, err)
}

func TestBatchExtractor_Empty(t *testing.T) {
	b := newTestBatch(t, BatchOptions{}, nil)
	results, err := b.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchExtractor_UsesCache(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": goSample})
	path := filepath.Join(root, "a.go")
	cache := NewResultCache(16, time.Minute)
	b := newTestBatch(t, BatchOptions{}, cache)

	first, err := b.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.False(t, first[0].Cached)

	second, err := b.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Snippets, second[0].Snippets)
	assert.Equal(t, uint64(1), cache.Stats().Hits)
}

func TestNewBatchExtractor_BadConfig(t *testing.T) {
	_, err := NewBatchExtractor(newTestParser(t), BatchOptions{
		EngineConfig: extract.Config{MinComplexity: 5, MaxComplexity: 2},
	}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}
