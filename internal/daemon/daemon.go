// Package daemon implements watch mode: a filesystem watcher over the package
// inputs that triggers debounced rebuilds, an optional periodic full rebuild,
// and a metrics endpoint.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pkgforge/internal/config"
	"git.home.luguber.info/inful/pkgforge/internal/logfields"
	"git.home.luguber.info/inful/pkgforge/internal/metrics"
)

// Daemon watches the package inputs and re-runs the pipeline on change.
type Daemon struct {
	Config  *config.Config
	WorkDir string

	// Rebuild runs one pipeline pass. Failures are logged, not fatal; the
	// daemon keeps watching.
	Rebuild func(ctx context.Context) error

	// Registry, when set, is served on the configured metrics address.
	Registry *prom.Registry
}

// Run blocks until the context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	for _, path := range d.watchPaths() {
		if err := addDirsRecursive(watcher, path); err != nil {
			return err
		}
	}

	debounce := time.Duration(d.Config.Watch.DebounceMS) * time.Millisecond
	rebuildReq, trigger := newDebouncer(debounce)
	d.startRebuildWorker(ctx, rebuildReq)

	if d.Config.Watch.RebuildInterval != "" {
		stop, err := d.startScheduler(trigger)
		if err != nil {
			return err
		}
		defer stop()
	}

	if d.Registry != nil {
		d.startMetricsServer(ctx)
	}

	slog.Info("Watching for changes",
		slog.Any("paths", d.watchPaths()),
		slog.Duration("debounce", debounce))

	// rebuildReq is never closed: a pending debounce timer may still fire
	// after shutdown, and its send must land in the buffer, not panic. The
	// worker exits on ctx.Done alone.
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (d *Daemon) watchPaths() []string {
	paths := d.Config.Watch.Paths
	if len(paths) == 0 {
		paths = []string{d.Config.Source.Dir, d.Config.I18n.PoDir}
	}
	abs := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			abs[i] = p
		} else {
			abs[i] = filepath.Join(d.WorkDir, p)
		}
	}
	return abs
}

func (d *Daemon) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// startRebuildWorker processes rebuild requests one at a time. Requests
// arriving during a rebuild coalesce into a single follow-up run.
func (d *Daemon) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				slog.Info("Change detected, rebuilding")
				if err := d.Rebuild(ctx); err != nil {
					slog.Warn("Rebuild failed", logfields.Error(err))
				}
			}
		}
	}()
}

func (d *Daemon) startScheduler(trigger func()) (func(), error) {
	interval, err := time.ParseDuration(d.Config.Watch.RebuildInterval)
	if err != nil {
		return nil, fmt.Errorf("parse rebuild interval: %w", err)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Info("Periodic full rebuild", slog.Duration("interval", interval))
			trigger()
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	s.Start()
	return func() { _ = s.Shutdown() }, nil
}

func (d *Daemon) startMetricsServer(ctx context.Context) {
	srv := &http.Server{
		Addr:        d.Config.Watch.MetricsAddr,
		Handler:     metrics.HTTPHandler(d.Registry),
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("Metrics endpoint listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Warn("Metrics server error", logfields.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}
