// Package watch reports repository changes on disk as a debounced pulse.
package watch

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thiagokokada/tig-go/internal/debounce"
)

const DefaultDelay = 350 * time.Millisecond

// Watcher coalesces filesystem events under a repository into pulses on
// Events. A pulse is dropped when the previous one was not consumed yet.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *debounce.Debouncer
	events   chan struct{}
	done     chan struct{}
}

// New starts watching root. delay <= 0 uses DefaultDelay.
func New(root string, delay time.Duration) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for path := range watchPaths(root) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fsw.Add(path); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	w := &Watcher{
		fs:     fsw,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	w.debounce = debounce.New(delay, w.pulse)
	go w.loop()
	return w, nil
}

// Poll reports whether a pulse is waiting, without blocking.
func (w *Watcher) Poll() bool {
	if w == nil {
		return false
	}
	select {
	case <-w.events:
		return true
	default:
		return false
	}
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.debounce.Stop()
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) pulse() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.debounce.Trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !shouldIgnoreWatchPath(ev.Name)
}

// watchPaths yields the git dir and the worktree root. fsnotify is not
// recursive, so only top-level worktree changes and index/ref updates are
// seen; staging and committing both touch .git.
func watchPaths(root string) iter.Seq[string] {
	if root == "" {
		return func(func(string) bool) {}
	}
	uniquePaths := map[string]struct{}{root: {}}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		uniquePaths[gitDir] = struct{}{}
		refsDir := filepath.Join(gitDir, "refs", "heads")
		if info, err := os.Stat(refsDir); err == nil && info.IsDir() {
			uniquePaths[refsDir] = struct{}{}
		}
	}
	return maps.Keys(uniquePaths)
}

func shouldIgnoreWatchPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
