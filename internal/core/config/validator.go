package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/parser"
	"snipex/internal/engine/rules"
)

// Validate checks cfg after defaults have been applied.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateExtraction,
		validateRules,
		validateScan,
		validateBatch,
		validateCache,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.CodeValidationError, fmt.Sprintf(format, args...))
}

func validateExtraction(cfg *Config) error {
	e := cfg.Extraction
	if e.MaxDepth < 0 {
		return invalid("extraction.max_depth must be >= 0, got %d", e.MaxDepth)
	}
	if e.MinComplexity < 1 {
		return invalid("extraction.min_complexity must be >= 1, got %d", e.MinComplexity)
	}
	if e.MaxComplexity < e.MinComplexity {
		return invalid("extraction.max_complexity (%d) must be >= min_complexity (%d)", e.MaxComplexity, e.MinComplexity)
	}
	if e.MinLength < 0 {
		return invalid("extraction.min_length must be >= 0, got %d", e.MinLength)
	}
	if e.MaxLength < e.MinLength {
		return invalid("extraction.max_length (%d) must be >= min_length (%d)", e.MaxLength, e.MinLength)
	}
	if e.CacheCapacity < 1 {
		return invalid("extraction.cache_capacity must be >= 1, got %d", e.CacheCapacity)
	}
	switch extract.CachePolicy(e.CachePolicy) {
	case extract.CachePolicyLRU, extract.CachePolicyReset:
	default:
		return invalid("extraction.cache_policy must be one of: lru, reset")
	}
	return nil
}

func validateRules(cfg *Config) error {
	if _, err := rules.Select(cfg.Rules.Enabled, cfg.Rules.Disabled); err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "rules section")
	}
	return nil
}

func validateScan(cfg *Config) error {
	known := make(map[string]bool)
	for _, lang := range parser.BuiltinLanguages() {
		known[lang] = true
	}
	for _, lang := range cfg.Scan.Languages {
		if !known[lang] {
			return invalid("scan.languages: unsupported language %q (supported: %s)", lang, strings.Join(parser.BuiltinLanguages(), ", "))
		}
	}
	for _, pattern := range cfg.Scan.ExcludeFiles {
		if _, err := glob.Compile(pattern); err != nil {
			return invalid("scan.exclude_files: invalid pattern %q: %v", pattern, err)
		}
	}
	return nil
}

func validateBatch(cfg *Config) error {
	if cfg.Batch.Size < 1 {
		return invalid("batch.size must be >= 1, got %d", cfg.Batch.Size)
	}
	if cfg.Batch.Workers < 0 {
		return invalid("batch.workers must be >= 0, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.FilesPerSecond < 0 {
		return invalid("batch.files_per_second must be >= 0, got %v", cfg.Batch.FilesPerSecond)
	}
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.Cache.Size < 1 {
		return invalid("cache.size must be >= 1, got %d", cfg.Cache.Size)
	}
	if cfg.Cache.TTL < 0 {
		return invalid("cache.ttl must be >= 0, got %s", cfg.Cache.TTL)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return invalid("observability.otlp_endpoint is required when enable_tracing is true")
	}
	return nil
}
