// Package watcher reports debounced changes to drill files in a directory
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/drillmerge/pkg/excellon"
)

// ChangeHandler is called with the drill files changed since the last call
type ChangeHandler func(paths []string) error

// Watcher watches one directory for drill file changes
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
}

// New starts watching dir
func New(dir string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Clean(dir)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{fs: fw, debounce: debounce, logger: logger}, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers batches of changed drill files to handle until ctx is cancelled.
// Handler errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, handle ChangeHandler) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			if err := handle(paths); err != nil {
				w.logger.Error("change handler failed", zap.Strings("paths", paths), zap.Error(err))
			}
		}
	}
}

// relevant keeps content-changing events on drill files
func relevant(ev fsnotify.Event) bool {
	if !excellon.IsDrillFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
