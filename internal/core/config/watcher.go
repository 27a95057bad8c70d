package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"snipex/internal/shared/observability"
)

const reloadDebounce = 100 * time.Millisecond

// Reload outcomes, also used as the metric label.
const (
	reloadApplied   = "applied"
	reloadUnchanged = "unchanged"
	reloadInvalid   = "invalid"
)

// Watcher reloads a snipex.toml when its content changes and hands each valid
// result to the callback. Invalid edits are logged and the last good
// configuration stays in effect.
type Watcher struct {
	path     string
	callback func(*Config)

	mu      sync.Mutex
	sum     uint64
	pending *time.Timer
	stopped bool

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewWatcher(path string, callback func(*Config)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		callback: callback,
		stop:     make(chan struct{}),
	}
}

// Start begins watching. It returns once the underlying watch is registered.
// The file's current content is the baseline, so rewriting it unchanged does
// not trigger a reload.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// The directory is watched so atomic saves that replace the file are seen.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	if data, err := os.ReadFile(w.path); err == nil {
		w.mu.Lock()
		w.sum = xxhash.Sum64(data)
		w.mu.Unlock()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fsw.Close()
		w.run(ctx, fsw)
	}()
	return nil
}

// Stop ends the watch, cancels a pending reload and waits for the watch
// goroutine. Safe to call twice.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stop)
		w.mu.Lock()
		w.stopped = true
		if w.pending != nil {
			w.pending.Stop()
		}
		w.mu.Unlock()
	})
	w.wg.Wait()
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	slog.Debug("config watcher started", "path", w.path)
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "path", w.path, "error", err)
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// schedule coalesces bursts of editor writes into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(reloadDebounce, func() { w.reload() })
}

// reload reads the file once, skips content already seen, and applies the
// parsed result. It reports the outcome.
func (w *Watcher) reload() string {
	data, err := os.ReadFile(w.path)
	if err != nil {
		slog.Warn("config reload failed", "path", w.path, "error", err)
		return w.record(reloadInvalid)
	}
	sum := xxhash.Sum64(data)

	w.mu.Lock()
	if w.stopped || sum == w.sum {
		w.mu.Unlock()
		return w.record(reloadUnchanged)
	}
	w.mu.Unlock()

	cfg, err := Parse(string(data))
	if err != nil {
		slog.Warn("config reload rejected", "path", w.path, "error", err)
		return w.record(reloadInvalid)
	}

	w.mu.Lock()
	w.sum = sum
	w.mu.Unlock()

	slog.Info("config reloaded", "path", w.path)
	if w.callback != nil {
		w.callback(cfg)
	}
	return w.record(reloadApplied)
}

func (w *Watcher) record(result string) string {
	observability.ConfigReloadsTotal.WithLabelValues(result).Inc()
	return result
}
