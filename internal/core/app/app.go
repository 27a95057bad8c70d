package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"snipex/internal/core/config"
	"snipex/internal/core/watcher"
	"snipex/internal/engine/parser"
	"snipex/internal/engine/rules"
	"snipex/internal/shared/util"
)

// App wires configuration, parsing, extraction and output together.
type App struct {
	Config *config.Config
	Parser *parser.Parser

	logger *slog.Logger
	out    io.Writer
	cache  *ResultCache

	mu      sync.RWMutex
	scanner *Scanner
	batch   *BatchExtractor
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loader, err := parser.NewGrammarLoader(cfg.Scan.Languages...)
	if err != nil {
		return nil, err
	}

	a := &App{
		Parser: parser.NewParser(loader),
		logger: logger,
		out:    os.Stdout,
	}
	if cfg.Cache.Enabled {
		a.cache = NewResultCache(cfg.Cache.Size, cfg.Cache.TTL)
	}
	if err := a.Reload(cfg); err != nil {
		return nil, err
	}

	logger.Info("snipex ready",
		"languages", a.Parser.Languages(),
		"rules", len(a.batch.opts.Rules),
		"result_cache", cfg.Cache.Enabled,
	)
	return a, nil
}

// SetOutput redirects results written to stdout.
func (a *App) SetOutput(w io.Writer) { a.out = w }

// Reload applies rule, extraction, scan and batch settings from cfg. The
// grammar set and results cache are fixed at construction; cached results
// are purged since they may reflect the previous rule set.
func (a *App) Reload(cfg *config.Config) error {
	selected, err := rules.Select(cfg.Rules.Enabled, cfg.Rules.Disabled)
	if err != nil {
		return err
	}
	scanner, err := NewScanner(a.Parser, cfg.Scan)
	if err != nil {
		return err
	}
	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = a.logger
	batch, err := NewBatchExtractor(a.Parser, BatchOptions{
		Size:           cfg.Batch.Size,
		Workers:        cfg.Batch.Workers,
		FilesPerSecond: cfg.Batch.FilesPerSecond,
		EngineConfig:   engineCfg,
		Rules:          selected,
		Logger:         a.logger,
	}, a.cache)
	if err != nil {
		return err
	}

	a.mu.Lock()
	reloaded := a.Config != nil
	a.Config = cfg
	a.scanner = scanner
	a.batch = batch
	a.mu.Unlock()

	if reloaded {
		a.cache.Purge()
		a.logger.Info("configuration reloaded", "rules", len(selected))
	}
	return nil
}

func (a *App) current() (*config.Config, *Scanner, *BatchExtractor) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config, a.scanner, a.batch
}

// Scan extracts every accepted file under roots, or under the configured scan
// paths when roots is empty, and writes the results.
func (a *App) Scan(ctx context.Context, roots []string) ([]FileResult, error) {
	cfg, scanner, batch := a.current()
	if len(roots) == 0 {
		roots = cfg.Scan.Paths
	}
	files, err := scanner.Scan(roots)
	if err != nil {
		return nil, err
	}
	a.logger.Info("scan started", "roots", roots, "files", len(files))

	results, err := batch.Run(ctx, files)
	if err != nil {
		return nil, err
	}
	a.logSummary(results)
	return results, a.emit(cfg, results)
}

// Watch runs an initial scan, then re-extracts changed files until ctx is
// done. configPath, when set, is watched and hot-reloaded.
func (a *App) Watch(ctx context.Context, roots []string, configPath string) error {
	cfg, _, _ := a.current()
	if len(roots) == 0 {
		roots = cfg.Scan.Paths
	}
	results, err := a.Scan(ctx, roots)
	if err != nil {
		return err
	}
	set := newResultSet(results)

	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:    cfg.Watch.Debounce,
		ExcludeDirs: cfg.Scan.ExcludeDirs,
		Accept: func(path string) bool {
			_, s, _ := a.current()
			return s.Accept(path)
		},
	}, func(paths []string) {
		a.handleChanges(ctx, set, paths)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(UniqueScanRoots(roots)); err != nil {
		return err
	}

	if configPath != "" {
		cw := config.NewWatcher(configPath, func(next *config.Config) {
			if err := a.Reload(next); err != nil {
				a.logger.Warn("configuration reload rejected", "path", configPath, "error", err)
			}
		})
		if err := cw.Start(ctx); err != nil {
			a.logger.Warn("config watcher unavailable", "path", configPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	a.logger.Info("watching for changes", "roots", roots)
	<-ctx.Done()
	return nil
}

// handleChanges re-extracts paths that still exist and drops removed ones.
func (a *App) handleChanges(ctx context.Context, set *resultSet, paths []string) {
	cfg, _, batch := a.current()

	var existing, removed []string
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			removed = append(removed, util.SlashPath(p))
			continue
		}
		existing = append(existing, p)
	}
	a.logger.Info("detected changes", "changed", len(existing), "removed", len(removed))

	changed, err := batch.Run(ctx, existing)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Error("re-extraction failed", "error", err)
		}
		return
	}
	all := set.update(changed, removed)

	if cfg.Output.Path != "" {
		err = WriteResultsFile(cfg.Output.Path, cfg.Output.Pretty, all)
	} else {
		err = NewWriter(a.out, cfg.Output.Pretty).Write(changed...)
	}
	if err != nil {
		a.logger.Error("failed to write results", "error", err)
	}
}

func (a *App) emit(cfg *config.Config, results []FileResult) error {
	if cfg.Output.Path != "" {
		return WriteResultsFile(cfg.Output.Path, cfg.Output.Pretty, results)
	}
	return NewWriter(a.out, cfg.Output.Pretty).Write(results...)
}

func (a *App) logSummary(results []FileResult) {
	var snippets, failed, cached, skipped int
	for _, r := range results {
		snippets += len(r.Snippets)
		switch {
		case r.Err != nil:
			failed++
		case r.Cached:
			cached++
		case r.Skipped:
			skipped++
		}
	}
	stats := a.cache.Stats()
	a.logger.Info("scan complete",
		"files", len(results),
		"snippets", snippets,
		"failed", failed,
		"cached", cached,
		"skipped", skipped,
		"cache_hit_rate", stats.HitRate,
	)
}
