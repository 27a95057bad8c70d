// # internal/core/config/config.go
package config

import "time"

// Config is the decoded form of snipex.toml.
type Config struct {
	Extraction    Extraction    `toml:"extraction"`
	Rules         Rules         `toml:"rules"`
	Scan          Scan          `toml:"scan"`
	Batch         Batch         `toml:"batch"`
	Cache         Cache         `toml:"cache"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

// Extraction tunes the rule engine. Zero values take the engine defaults.
type Extraction struct {
	MaxDepth      int    `toml:"max_depth"`
	MinComplexity int    `toml:"min_complexity"`
	MaxComplexity int    `toml:"max_complexity"`
	MinLength     int    `toml:"min_length"`
	MaxLength     int    `toml:"max_length"`
	CacheCapacity int    `toml:"cache_capacity"`
	CachePolicy   string `toml:"cache_policy"`
}

// Rules selects rules by name. An empty Enabled list enables every rule.
type Rules struct {
	Enabled  []string `toml:"enabled"`
	Disabled []string `toml:"disabled"`
}

type Scan struct {
	Paths        []string `toml:"paths"`
	Languages    []string `toml:"languages"`
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"`
	IncludeTests bool     `toml:"include_tests"`
}

type Batch struct {
	Size           int     `toml:"size"`
	Workers        int     `toml:"workers"`
	FilesPerSecond float64 `toml:"files_per_second"`
}

// Cache configures the per-file results cache.
type Cache struct {
	Enabled bool          `toml:"enabled"`
	Size    int           `toml:"size"`
	TTL     time.Duration `toml:"ttl"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	Path   string `toml:"path"`
	Pretty bool   `toml:"pretty"`
}

type Observability struct {
	MetricsAddr   string `toml:"metrics_addr"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
	ServiceName   string `toml:"service_name"`
}
