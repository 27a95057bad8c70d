package app

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"snipex/internal/shared/util"
)

// Writer emits one JSON object per file result.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	pretty bool
}

func NewWriter(out io.Writer, pretty bool) *Writer {
	return &Writer{out: out, pretty: pretty}
}

func (w *Writer) Write(results ...FileResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	enc := json.NewEncoder(w.out)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent("", "  ")
	}
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteResultsFile replaces path with the encoded results, creating parent
// directories as needed.
func WriteResultsFile(path string, pretty bool, results []FileResult) error {
	var buf bytes.Buffer
	if err := NewWriter(&buf, pretty).Write(results...); err != nil {
		return err
	}
	return util.WriteFileWithDirs(path, buf.Bytes(), 0o644)
}

// resultSet keeps the latest result per path for watch mode.
type resultSet struct {
	mu      sync.Mutex
	results map[string]FileResult
}

func newResultSet(results []FileResult) *resultSet {
	s := &resultSet{results: make(map[string]FileResult, len(results))}
	s.update(results, nil)
	return s
}

func (s *resultSet) update(changed []FileResult, removed []string) []FileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range changed {
		s.results[r.Path] = r
	}
	for _, p := range removed {
		delete(s.results, p)
	}
	out := make([]FileResult, 0, len(s.results))
	for _, p := range util.SortedStringKeys(s.results) {
		out = append(out, s.results[p])
	}
	return out
}
