package app

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"snipex/internal/core/config"
	"snipex/internal/engine/parser"
)

// generatedMarkers flag files produced by code generators.
var generatedMarkers = [][]byte{
	[]byte("Code generated"),
	[]byte("DO NOT EDIT"),
	[]byte("@generated"),
}

// Scanner decides which files under the scan roots are extracted.
type Scanner struct {
	parser       *parser.Parser
	languages    map[string]bool
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	includeTests bool
}

func NewScanner(p *parser.Parser, scan config.Scan) (*Scanner, error) {
	dirs, err := compileGlobs(scan.ExcludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	files, err := compileGlobs(scan.ExcludeFiles, "exclude file")
	if err != nil {
		return nil, err
	}
	langs := make(map[string]bool, len(scan.Languages))
	for _, l := range scan.Languages {
		langs[l] = true
	}
	return &Scanner{
		parser:       p,
		languages:    langs,
		excludeDirs:  dirs,
		excludeFiles: files,
		includeTests: scan.IncludeTests,
	}, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Accept reports whether the file at path should be extracted.
func (s *Scanner) Accept(path string) bool {
	lang := s.parser.DetectLanguage(path)
	if lang == "" {
		return false
	}
	if len(s.languages) > 0 && !s.languages[lang] {
		return false
	}
	if !s.includeTests && s.parser.IsTestFile(path) {
		return false
	}
	base := filepath.Base(path)
	for _, g := range s.excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (s *Scanner) excludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Scan walks roots and returns the accepted files, sorted and unique. A root
// may also name a single file.
func (s *Scanner) Scan(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range UniqueScanRoots(roots) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && s.excludedDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !seen[path] && s.Accept(path) {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// UniqueScanRoots cleans roots and drops duplicates.
func UniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)
	return roots
}

// IsGeneratedFile reports whether the leading lines of content carry a
// generator marker.
func IsGeneratedFile(content []byte) bool {
	head := content
	for i, lines := 0, 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines++
			if lines == 5 {
				head = content[:i]
				break
			}
		}
	}
	for _, marker := range generatedMarkers {
		if bytes.Contains(head, marker) {
			return true
		}
	}
	return false
}
