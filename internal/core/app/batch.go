package app

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"snipex/internal/core/errors"
	"snipex/internal/engine/extract"
	"snipex/internal/engine/parser"
	"snipex/internal/engine/snippet"
	"snipex/internal/shared/observability"
	"snipex/internal/shared/util"
)

type BatchOptions struct {
	// Size is the number of files dispatched together. Zero means all at once.
	Size int
	// Workers bounds concurrency within a batch. Zero means GOMAXPROCS.
	Workers int
	// FilesPerSecond throttles file reads. Zero disables throttling.
	FilesPerSecond float64
	EngineConfig   extract.Config
	Rules          []extract.Rule
	Logger         *slog.Logger
}

// BatchExtractor reads, parses and extracts files concurrently. Results are
// returned in input order.
type BatchExtractor struct {
	parser  *parser.Parser
	opts    BatchOptions
	cache   *ResultCache
	limiter *util.Limiter
	logger  *slog.Logger
}

// NewBatchExtractor validates the engine configuration up front. cache may be
// nil to disable result caching.
func NewBatchExtractor(p *parser.Parser, opts BatchOptions, cache *ResultCache) (*BatchExtractor, error) {
	if _, err := extract.NewEngine(opts.EngineConfig, opts.Rules...); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.EngineConfig.Logger == nil {
		opts.EngineConfig.Logger = logger
	}
	return &BatchExtractor{
		parser:  p,
		opts:    opts,
		cache:   cache,
		limiter: util.NewLimiter(opts.FilesPerSecond, max(1, int(opts.FilesPerSecond))),
		logger:  logger,
	}, nil
}

// Run extracts every path. Per-file failures are recorded on the result; only
// context cancellation aborts the run.
func (b *BatchExtractor) Run(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	size := b.opts.Size
	if size <= 0 {
		size = len(paths)
	}

	start := time.Now()
	for lo := 0; lo < len(paths); lo += size {
		hi := min(lo+size, len(paths))
		if err := b.runBatch(ctx, paths[lo:hi], results[lo:hi]); err != nil {
			return nil, err
		}
	}

	b.logger.Info("extraction run finished",
		"files", len(paths),
		"duration", time.Since(start),
		"heap_mb", util.HeapAllocMB(),
	)
	return results, nil
}

func (b *BatchExtractor) runBatch(ctx context.Context, paths []string, results []FileResult) error {
	ctx, span := observability.Tracer.Start(ctx, "batch", trace.WithAttributes(
		attribute.Int("files", len(paths)),
	))
	defer span.End()
	start := time.Now()
	defer func() {
		observability.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	workers := b.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(paths))

	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			engine, err := extract.NewEngine(b.opts.EngineConfig, b.opts.Rules...)
			if err != nil {
				return err
			}
			for i := range jobs {
				if err := b.limiter.Wait(gctx, 1); err != nil {
					return err
				}
				results[i] = b.extractFile(gctx, engine, paths[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (b *BatchExtractor) extractFile(ctx context.Context, engine *extract.Engine, path string) FileResult {
	_, span := observability.Tracer.Start(ctx, "extract_file", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	res := FileResult{
		Path:     util.SlashPath(path),
		Language: b.parser.DetectLanguage(path),
		Snippets: []snippet.Snippet{},
		Failures: []Failure{},
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return b.fail(span, res, errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "read file"),
			errors.CtxPath, path,
		))
	}
	if IsGeneratedFile(content) {
		res.Skipped = true
		observability.FilesProcessedTotal.WithLabelValues("skipped").Inc()
		return res
	}
	if cached, ok := b.cache.Get(path, content); ok {
		observability.FilesProcessedTotal.WithLabelValues("cached").Inc()
		return cached
	}

	tree, err := b.parser.Parse(path, content)
	if err != nil {
		return b.fail(span, res, err)
	}
	out := engine.Run(tree)
	res.Snippets = out.Snippets
	for _, f := range out.Failures {
		res.Failures = append(res.Failures, Failure{Rule: f.Rule, Error: f.Err.Error()})
	}
	span.SetAttributes(
		attribute.String("language", res.Language),
		attribute.Int("snippets", len(res.Snippets)),
	)

	b.cache.Put(path, content, res)
	observability.FilesProcessedTotal.WithLabelValues("ok").Inc()
	return res
}

func (b *BatchExtractor) fail(span trace.Span, res FileResult, err error) FileResult {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	b.logger.Warn("file extraction failed", "path", res.Path, "error", err)
	observability.FilesProcessedTotal.WithLabelValues("error").Inc()
	res.Err = err
	res.Error = err.Error()
	return res
}
