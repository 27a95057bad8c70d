// # internal/engine/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"snipex/internal/core/errors"
	"snipex/internal/engine/syntax"
	"snipex/internal/shared/observability"
	"snipex/internal/shared/util"
)

// Parser turns source files into syntax trees. It holds one parser pool per
// loaded language and is safe for concurrent use.
type Parser struct {
	loader       *GrammarLoader
	pools        map[string]*ParserPool
	extensions   map[string]string
	testSuffixes []string
	testPrefixes []string
	opts         ConvertOptions
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		pools:      make(map[string]*ParserPool),
		extensions: make(map[string]string),
	}
	for _, name := range loader.Languages() {
		lang, _ := loader.Language(name)
		p.pools[name] = NewParserPool(lang)
	}
	for name, spec := range loader.LanguageRegistry() {
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = name
		}
		p.testSuffixes = append(p.testSuffixes, spec.TestFileSuffixes...)
		p.testPrefixes = append(p.testPrefixes, spec.TestFilePrefixes...)
	}
	sort.Strings(p.testSuffixes)
	sort.Strings(p.testPrefixes)
	return p
}

// WithOptions returns a copy of p that converts trees with opts. Pools are
// shared with p.
func (p *Parser) WithOptions(opts ConvertOptions) *Parser {
	cp := *p
	cp.opts = opts
	return &cp
}

// Parse detects the language of path and parses content.
func (p *Parser) Parse(path string, content []byte) (*syntax.Tree, error) {
	lang := p.DetectLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, "unsupported language"),
			errors.CtxPath, path,
		)
	}
	tree, err := p.ParseLanguage(lang, content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return tree, nil
}

// ParseLanguage parses content with the named grammar.
func (p *Parser) ParseLanguage(lang string, content []byte) (*syntax.Tree, error) {
	pool := p.pools[lang]
	if pool == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, fmt.Sprintf("grammar not loaded: %s", lang)),
			errors.CtxLanguage, lang,
		)
	}

	start := time.Now()
	defer func() {
		observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	}()

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeParseFailed, "parse failed"),
			errors.CtxLanguage, lang,
		)
	}
	defer tree.Close()

	return Convert(tree.RootNode(), content, lang, p.opts), nil
}

func (p *Parser) DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ts" && strings.HasSuffix(strings.ToLower(path), ".d.ts") {
		return ""
	}
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.DetectLanguage(path) != ""
}

func (p *Parser) IsTestFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range p.testSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	for _, prefix := range p.testPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}

func (p *Parser) Languages() []string {
	return p.loader.Languages()
}

func (p *Parser) SupportedExtensions() []string {
	return util.SortedStringKeys(p.extensions)
}
