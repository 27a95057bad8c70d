package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SNIPEX_[SECTION]_[KEY] (e.g., SNIPEX_BATCH_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Extraction
	setEnvInt(&cfg.Extraction.MaxDepth, "SNIPEX_EXTRACTION_MAX_DEPTH")
	setEnvInt(&cfg.Extraction.MinComplexity, "SNIPEX_EXTRACTION_MIN_COMPLEXITY")
	setEnvInt(&cfg.Extraction.MaxComplexity, "SNIPEX_EXTRACTION_MAX_COMPLEXITY")
	setEnvInt(&cfg.Extraction.MinLength, "SNIPEX_EXTRACTION_MIN_LENGTH")
	setEnvInt(&cfg.Extraction.MaxLength, "SNIPEX_EXTRACTION_MAX_LENGTH")
	setEnvInt(&cfg.Extraction.CacheCapacity, "SNIPEX_EXTRACTION_CACHE_CAPACITY")
	setEnvString(&cfg.Extraction.CachePolicy, "SNIPEX_EXTRACTION_CACHE_POLICY")

	// Rules
	setEnvList(&cfg.Rules.Enabled, "SNIPEX_RULES_ENABLED")
	setEnvList(&cfg.Rules.Disabled, "SNIPEX_RULES_DISABLED")

	// Scan
	setEnvList(&cfg.Scan.Paths, "SNIPEX_SCAN_PATHS")
	setEnvList(&cfg.Scan.Languages, "SNIPEX_SCAN_LANGUAGES")
	setEnvBool(&cfg.Scan.IncludeTests, "SNIPEX_SCAN_INCLUDE_TESTS")

	// Batch
	setEnvInt(&cfg.Batch.Size, "SNIPEX_BATCH_SIZE")
	setEnvInt(&cfg.Batch.Workers, "SNIPEX_BATCH_WORKERS")
	setEnvFloat64(&cfg.Batch.FilesPerSecond, "SNIPEX_BATCH_FILES_PER_SECOND")

	// Cache
	setEnvBool(&cfg.Cache.Enabled, "SNIPEX_CACHE_ENABLED")
	setEnvInt(&cfg.Cache.Size, "SNIPEX_CACHE_SIZE")
	setEnvDuration(&cfg.Cache.TTL, "SNIPEX_CACHE_TTL")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "SNIPEX_WATCH_DEBOUNCE")

	// Output
	setEnvString(&cfg.Output.Path, "SNIPEX_OUTPUT_PATH")
	setEnvBool(&cfg.Output.Pretty, "SNIPEX_OUTPUT_PRETTY")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "SNIPEX_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "SNIPEX_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "SNIPEX_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.ServiceName, "SNIPEX_OBSERVABILITY_SERVICE_NAME")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*target = out
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		} else {
			slog.Warn("ignoring malformed env override", "key", key, "value", val, "error", err)
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		} else {
			slog.Warn("ignoring malformed env override", "key", key, "value", val, "error", err)
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
