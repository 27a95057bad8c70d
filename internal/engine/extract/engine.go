package extract

import (
	"fmt"
	"log/slog"
	"time"

	"snipex/internal/core/errors"
	"snipex/internal/engine/snippet"
	"snipex/internal/engine/syntax"
	"snipex/internal/shared/observability"
)

const (
	DefaultMaxDepth      = 50
	DefaultMinComplexity = 1
	DefaultMaxComplexity = 15
	DefaultMinLength     = 20
	DefaultMaxLength     = 1000
	DefaultCacheCapacity = 1000
)

// Config holds the engine's tunables. Zero fields take the defaults above.
type Config struct {
	MaxDepth      int
	MinComplexity int
	MaxComplexity int
	MinLength     int
	MaxLength     int
	CacheCapacity int
	CachePolicy   CachePolicy
	Logger        *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		MinComplexity: DefaultMinComplexity,
		MaxComplexity: DefaultMaxComplexity,
		MinLength:     DefaultMinLength,
		MaxLength:     DefaultMaxLength,
		CacheCapacity: DefaultCacheCapacity,
		CachePolicy:   CachePolicyLRU,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxDepth == 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.MinComplexity == 0 {
		c.MinComplexity = d.MinComplexity
	}
	if c.MaxComplexity == 0 {
		c.MaxComplexity = d.MaxComplexity
	}
	if c.MinLength == 0 {
		c.MinLength = d.MinLength
	}
	if c.MaxLength == 0 {
		c.MaxLength = d.MaxLength
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = d.CacheCapacity
	}
	if c.CachePolicy == "" {
		c.CachePolicy = d.CachePolicy
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.MaxDepth < 0:
		return errors.New(errors.CodeValidationError, "max depth must not be negative")
	case c.MinComplexity < 1:
		return errors.New(errors.CodeValidationError, "min complexity must be at least 1")
	case c.MaxComplexity < c.MinComplexity:
		return errors.New(errors.CodeValidationError, fmt.Sprintf("max complexity %d below min complexity %d", c.MaxComplexity, c.MinComplexity))
	case c.MinLength < 0:
		return errors.New(errors.CodeValidationError, "min length must not be negative")
	case c.MaxLength < c.MinLength:
		return errors.New(errors.CodeValidationError, fmt.Sprintf("max length %d below min length %d", c.MaxLength, c.MinLength))
	}
	return nil
}

// Bounds returns the validation window of the configuration.
func (c Config) Bounds() Bounds {
	return Bounds{
		MinComplexity: c.MinComplexity,
		MaxComplexity: c.MaxComplexity,
		MinLength:     c.MinLength,
		MaxLength:     c.MaxLength,
	}
}

// RuleFailure records a rule whose contribution was discarded.
type RuleFailure struct {
	Rule string
	Err  error
}

// Result is the outcome of one extraction call.
type Result struct {
	Snippets   []snippet.Snippet
	Failures   []RuleFailure
	Candidates int
	Rejected   int
	Duplicates int
}

// Engine coordinates a fixed rule set over one tree at a time. An Engine owns
// its hash memo; give each worker its own Engine.
type Engine struct {
	cfg    Config
	rules  []Rule
	cache  HashCache
	logger *slog.Logger
}

func NewEngine(cfg Config, rules ...Rule) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cache, err := NewHashCache(cfg.CachePolicy, cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		rules:  append([]Rule(nil), rules...),
		cache:  cache,
		logger: logger,
	}, nil
}

// ExtractAll runs rules over tree with the default configuration.
func ExtractAll(tree *syntax.Tree, rules []Rule) []snippet.Snippet {
	e, err := NewEngine(DefaultConfig(), rules...)
	if err != nil {
		slog.Error("default engine configuration rejected", "error", err)
		return []snippet.Snippet{}
	}
	return e.Extract(tree)
}

func (e *Engine) Config() Config { return e.cfg }

// RuleNames lists the registered rules in execution order.
func (e *Engine) RuleNames() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

func (e *Engine) CacheStats() CacheStats { return e.cache.Stats() }

// Extract returns the validated, deduplicated snippets for tree.
func (e *Engine) Extract(tree *syntax.Tree) []snippet.Snippet {
	return e.Run(tree).Snippets
}

// Run executes every rule in isolation, merges their output in registration
// order, then validates and deduplicates the merged set once.
func (e *Engine) Run(tree *syntax.Tree) Result {
	res := Result{Snippets: []snippet.Snippet{}}
	if tree == nil || tree.Len() == 0 {
		return res
	}

	merged := make([]snippet.Snippet, 0)
	for _, rule := range e.rules {
		start := time.Now()
		out, err := e.runRule(tree, rule)
		observability.RuleDuration.WithLabelValues(rule.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			observability.RuleFailuresTotal.WithLabelValues(rule.Name()).Inc()
			e.logger.Warn("rule failed", "rule", rule.Name(), "language", tree.Language(), "error", err)
			res.Failures = append(res.Failures, RuleFailure{Rule: rule.Name(), Err: err})
			continue
		}
		for i := range out {
			out[i].Normalize()
		}
		merged = append(merged, out...)
	}
	res.Candidates = len(merged)

	valid, rejected := Validate(merged, e.cfg.Bounds())
	unique, dups := Deduplicate(valid, e.cache)
	res.Rejected = rejected
	res.Duplicates = dups
	res.Snippets = unique

	observability.SnippetsRejectedTotal.Add(float64(rejected))
	observability.SnippetsDeduplicatedTotal.Add(float64(dups))
	for _, s := range unique {
		observability.SnippetsEmittedTotal.WithLabelValues(string(s.Classification.SnippetType)).Inc()
	}

	e.logger.Debug("extraction finished",
		"language", tree.Language(),
		"candidates", res.Candidates,
		"rejected", rejected,
		"duplicates", dups,
		"snippets", len(unique),
		"failed_rules", len(res.Failures),
	)
	return res
}

func (e *Engine) runRule(tree *syntax.Tree, rule Rule) (out []snippet.Snippet, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.AddContext(
				errors.New(errors.CodeRulePanic, fmt.Sprintf("rule panicked: %v", r)),
				errors.CtxRule, rule.Name(),
			)
		}
	}()

	if x, ok := rule.(Extractor); ok {
		out, err = x.Extract(tree)
		if err != nil {
			// The rule owns err; annotate a fresh wrapper instead.
			code := errors.CodeOf(err)
			if code == "" {
				code = errors.CodeRuleFailure
			}
			err = errors.Wrap(err, code, "extract failed")
		}
	} else {
		out, err = Walk(tree, rule, e.cfg.MaxDepth)
	}
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxRule, rule.Name())
	}
	return out, nil
}
