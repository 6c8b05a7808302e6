package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pxvw/plugin"
)

// watcher reconverts stylesheets when they change on disk.
type watcher struct {
	sel      *selector
	dst      string
	plugin   *plugin.Plugin
	workers  int
	debounce time.Duration
	log      *zap.Logger

	// invoked after every batch, used by tests
	onBatch func(*summary, error)
}

// run blocks until ctx is done. Changes are collected until there were no
// new events for debounce interval and then processed as a single batch.
func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.sel.root); err != nil {
		return err
	}
	w.log.Info("Watching for changes", zap.String("source", w.sel.root), zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]job)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Watching stopped", zap.Int("pending", len(pending)))
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fi, err := os.Stat(ev.Name)
			if err != nil {
				// already gone
				continue
			}
			if fi.IsDir() {
				if ev.Has(fsnotify.Create) && !w.sel.skipDir(ev.Name) {
					if err := w.addTree(fsw, ev.Name); err != nil {
						w.log.Warn("Unable to watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
				continue
			}
			if !fi.Mode().IsRegular() {
				continue
			}
			j, ok := w.sel.selectFile(ev.Name)
			if !ok {
				continue
			}
			w.log.Debug("Change detected", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			pending[j.path] = j
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("File watcher error", zap.Error(err))

		case <-timer.C:
			jobs := make([]job, 0, len(pending))
			for _, j := range pending {
				jobs = append(jobs, j)
			}
			clear(pending)
			sortJobs(jobs)

			sum, err := processAll(ctx, jobs, w.dst, w.plugin, w.workers, w.log)
			w.log.Info("Changes processed", sum.fields()...)
			if w.onBatch != nil {
				w.onBatch(sum, err)
			}
		}
	}
}

// addTree watches directory and all its subdirectories which may contain
// selected stylesheets.
func (w *watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("unable to watch %s: %w", path, err)
			}
			w.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.sel.skipDir(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("unable to watch %s: %w", path, err)
			}
			w.log.Warn("Unable to watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}
