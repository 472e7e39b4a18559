// Package watch reports changes below a source directory with debouncing.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period before a burst of events is reported.
const DefaultDelay = 300 * time.Millisecond

// Watcher watches a directory tree. fsnotify is not recursive, so every
// directory is added on start and new directories as they appear.
type Watcher struct {
	Root  string
	Delay time.Duration
	// Ignore lists directories whose events are dropped (e.g. the output
	// directory when it lives inside the source tree).
	Ignore []string

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Watcher for root.
func New(root string, ignore ...string) *Watcher {
	return &Watcher{Root: root, Delay: DefaultDelay, Ignore: ignore}
}

// Watch calls onChange after changes settle, until ctx is done.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.Root); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.watchCreated(watcher, event.Name)
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				slog.Debug("Source changed", "path", event.Name, "op", event.Op.String())
				w.debounce(onChange)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)

		case <-ctx.Done():
			w.stop()
			return nil
		}
	}
}

// watchCreated adds a newly created directory tree. A path that is gone
// again by the time it is walked is not an error.
func (w *Watcher) watchCreated(watcher *fsnotify.Watcher, path string) error {
	err := w.addTree(watcher, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Cannot watch new directory, its changes will be missed", "path", path, "error", err)
		return err
	}
	return nil
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && (strings.HasPrefix(d.Name(), ".") || w.ignored(path)) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.Ignore {
		ignore, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if abs == ignore || strings.HasPrefix(abs, ignore+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) debounce(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Delay, fn)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
