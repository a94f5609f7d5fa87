// Package watch turns page-file changes into debounced reconciliation
// passes. It is the rendition of the document-mutation observer: the host
// page is a file rewritten by outside tooling at any time, and every rewrite
// (plus a periodic tick) schedules a recheck.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jct-tools/moodleboard/internal/grid"
	"github.com/jct-tools/moodleboard/internal/page"
	"github.com/jct-tools/moodleboard/internal/reconcile"
)

const (
	// recheckDebounce collapses a burst of file events into one pass. The
	// observer fires for our own write-back too, so without the debounce and
	// the self-write window every pass would schedule the next.
	recheckDebounce = 500 * time.Millisecond

	// defaultTick is the periodic reconciliation interval that catches
	// changes the file watcher missed.
	defaultTick = 5 * time.Second
)

// Runner owns the watch-reconcile-write loop for one page file.
type Runner struct {
	pagePath string
	engine   *reconcile.Engine
	grid     *grid.Controller
	logger   *slog.Logger
	tick     time.Duration

	lastSelfWrite time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger routes loop diagnostics to the given logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTick overrides the periodic reconciliation interval.
func WithTick(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.tick = d
		}
	}
}

// NewRunner creates a runner for the page file at pagePath.
func NewRunner(pagePath string, engine *reconcile.Engine, gridCtl *grid.Controller, opts ...RunnerOption) *Runner {
	r := &Runner{
		pagePath: pagePath,
		engine:   engine,
		grid:     gridCtl,
		logger:   slog.New(slog.DiscardHandler),
		tick:     defaultTick,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks until ctx is cancelled, reconciling the page on startup, on
// every (debounced) file change, and on every tick. In-flight work at
// cancellation is simply abandoned; passes are idempotent.
func (r *Runner) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and atomic writes replace
	// the file node, which would silently detach a file-level watch.
	if err := watcher.Add(filepath.Dir(r.pagePath)); err != nil {
		return fmt.Errorf("watching page directory: %w", err)
	}

	if err := r.PassOnce(ctx); err != nil {
		r.logger.Warn("initial reconcile failed", "error", err)
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	var debounce *time.Timer
	recheck := make(chan struct{}, 1)
	scheduleRecheck := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(recheckDebounce, func() {
			select {
			case recheck <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(r.pagePath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Skip events from this loop's own write-back. Passes run
			// synchronously in this loop, so the window covers in-pass
			// mutations too.
			if time.Since(r.lastSelfWrite) < recheckDebounce {
				continue
			}
			scheduleRecheck()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", "error", err)

		case <-ticker.C:
			scheduleRecheck()

		case <-recheck:
			if err := r.PassOnce(ctx); err != nil {
				r.logger.Warn("reconcile failed", "error", err)
			}
		}
	}
}

// PassOnce loads the page file, runs one reconciliation pass plus a grid
// render, and writes the decorated document back atomically.
func (r *Runner) PassOnce(ctx context.Context) error {
	f, err := os.Open(r.pagePath)
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	doc, err := page.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	r.engine.Pass(ctx, doc)
	r.grid.EnsureView(doc)

	return r.writeBack(doc)
}

// writeBack renders the document to a temp file and renames it into place,
// recording the write time so the watcher ignores its own event.
func (r *Runner) writeBack(doc *page.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.pagePath), ".moodleboard-*")
	if err != nil {
		return fmt.Errorf("creating temp page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := doc.Render(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp page: %w", err)
	}

	r.lastSelfWrite = time.Now()
	if err := os.Rename(tmp.Name(), r.pagePath); err != nil {
		return fmt.Errorf("replacing page: %w", err)
	}
	return nil
}
