package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
)

const DefaultFile = "snipex.toml"

// Load reads path, applies defaults and environment overrides, and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}
	return Parse(string(data))
}

// Parse decodes TOML content the same way Load does.
func Parse(content string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}
	if !md.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = true
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys ignored", "keys", undecoded)
	}
	return finish(&cfg)
}

// Default returns the configuration used when no file is present.
func Default() (*Config, error) {
	return finish(&Config{Cache: Cache{Enabled: true}})
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := extract.DefaultConfig()
	if cfg.Extraction.MaxDepth == 0 {
		cfg.Extraction.MaxDepth = d.MaxDepth
	}
	if cfg.Extraction.MinComplexity == 0 {
		cfg.Extraction.MinComplexity = d.MinComplexity
	}
	if cfg.Extraction.MaxComplexity == 0 {
		cfg.Extraction.MaxComplexity = d.MaxComplexity
	}
	if cfg.Extraction.MinLength == 0 {
		cfg.Extraction.MinLength = d.MinLength
	}
	if cfg.Extraction.MaxLength == 0 {
		cfg.Extraction.MaxLength = d.MaxLength
	}
	if cfg.Extraction.CacheCapacity == 0 {
		cfg.Extraction.CacheCapacity = d.CacheCapacity
	}
	if strings.TrimSpace(cfg.Extraction.CachePolicy) == "" {
		cfg.Extraction.CachePolicy = string(d.CachePolicy)
	}

	if len(cfg.Scan.Paths) == 0 {
		cfg.Scan.Paths = []string{"."}
	}
	if len(cfg.Scan.ExcludeDirs) == 0 {
		cfg.Scan.ExcludeDirs = []string{".git", "node_modules", "vendor", "dist", "build", "target", "__pycache__"}
	}

	if cfg.Batch.Size == 0 {
		cfg.Batch.Size = 10
	}

	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 4096
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "snipex"
	}
}

func normalize(cfg *Config) {
	cfg.Extraction.CachePolicy = strings.ToLower(strings.TrimSpace(cfg.Extraction.CachePolicy))
	cfg.Scan.Languages = lowerAll(cfg.Scan.Languages)
	cfg.Rules.Enabled = trimAll(cfg.Rules.Enabled)
	cfg.Rules.Disabled = trimAll(cfg.Rules.Disabled)
}

// EngineConfig maps the extraction section onto the engine's configuration.
func (c *Config) EngineConfig() extract.Config {
	return extract.Config{
		MaxDepth:      c.Extraction.MaxDepth,
		MinComplexity: c.Extraction.MinComplexity,
		MaxComplexity: c.Extraction.MaxComplexity,
		MinLength:     c.Extraction.MinLength,
		MaxLength:     c.Extraction.MaxLength,
		CacheCapacity: c.Extraction.CacheCapacity,
		CachePolicy:   extract.CachePolicy(c.Extraction.CachePolicy),
	}
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
