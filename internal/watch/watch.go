// Package watch reports changes to the generated content tree file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay groups the burst of events an editor or generator produces
// when it rewrites a file.
const DefaultDelay = 200 * time.Millisecond

// Watcher watches a single file. It subscribes to the file's directory so
// that atomic replace-by-rename writes are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	file   string
	delay  time.Duration
	logger *zap.Logger
}

// New creates a watcher for path. A non-positive delay uses DefaultDelay.
func New(path string, delay time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{fs: fsw, file: abs, delay: delay, logger: logger}, nil
}

// Run calls onChange once per burst of changes to the file until ctx is
// done. It closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("content file changed", zap.String("op", ev.Op.String()))
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.file {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
