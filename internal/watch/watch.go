// Package watch re-runs a job when .docx files in a folder change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tsawler/debrief/format"
)

// DefaultDebounce batches the burst of events a single save produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches one directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      *zap.Logger
}

// New creates a watcher for dir. A non-positive debounce uses
// DefaultDebounce; a nil logger disables logging.
func New(dir string, debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{dir: dir, debounce: debounce, log: log}
}

// Run calls fn once the directory has been quiet for the debounce period
// after a relevant change, until ctx is cancelled. Errors from fn are
// logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.log.Info("watching directory", zap.String("dir", w.dir))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !Relevant(ev) {
				continue
			}
			w.log.Debug("change", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if err := fn(ctx); err != nil {
				w.log.Error("run after change failed", zap.Error(err))
			}
		}
	}
}

// Relevant reports whether ev touches a report document. Chmod events and
// Word lock files are ignored.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return !format.IsLockFile(name) && format.Detect(name) == format.DOCX
}
