package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snipex_parsing_seconds",
		Help:    "Time spent parsing a source file into a syntax tree.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	RuleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snipex_rule_seconds",
		Help:    "Time spent running one extraction rule over one tree.",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"rule"})

	RuleFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snipex_rule_failures_total",
		Help: "Total number of rule invocations that returned an error or panicked.",
	}, []string{"rule"})

	SnippetsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snipex_snippets_emitted_total",
		Help: "Total number of snippets returned after validation and deduplication.",
	}, []string{"snippet_type"})

	SnippetsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snipex_snippets_rejected_total",
		Help: "Total number of candidate snippets rejected by structural validation.",
	})

	SnippetsDeduplicatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snipex_snippets_deduplicated_total",
		Help: "Total number of candidate snippets dropped as content duplicates.",
	})

	HashCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snipex_hash_cache_lookups_total",
		Help: "Content hash memo lookups by result.",
	}, []string{"result"})

	HashCacheResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snipex_hash_cache_resets_total",
		Help: "Total number of wholesale content hash memo clears.",
	})

	ResultCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snipex_result_cache_lookups_total",
		Help: "Per-file result cache lookups by result.",
	}, []string{"result"})

	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snipex_files_processed_total",
		Help: "Total number of files processed by outcome.",
	}, []string{"outcome"})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snipex_batch_seconds",
		Help:    "Latency for extracting one batch of files.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snipex_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	ConfigReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snipex_config_reloads_total",
		Help: "Total number of configuration reload attempts by result.",
	}, []string{"result"})
)
