// Package watcher implements file watching with per-path debouncing on top
// of fsnotify.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// debounceDelay is the quiet period before a change is reported.
const debounceDelay = 100 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify. It watches the parent
// directories of the requested paths and filters events back down to exact
// path membership.
type Watcher struct {
	Logger ports.Logger
}

// New creates a new Watcher with the given logger.
func New(logger ports.Logger) *Watcher {
	return &Watcher{Logger: logger}
}

// Watch blocks until ctx is done, invoking onChange for each debounced change
// among paths.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer fsWatcher.Close() //nolint:errcheck // Close error on shutdown is not actionable

	// fsnotify tracks directories more reliably than individual files, so
	// watch each parent directory once and filter by exact path.
	members := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		clean := filepath.Clean(path)
		members[clean] = true
		dirs[filepath.Dir(clean)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "directory", dir)
		}
	}

	debounce := newDebouncer(debounceDelay, onChange)
	defer debounce.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if path := filepath.Clean(event.Name); members[path] {
				debounce.trigger(path)
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}
