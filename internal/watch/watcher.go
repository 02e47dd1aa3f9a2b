package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docpress/internal/logfields"
)

// Handler consumes serialized events.
type Handler interface {
	Process(ctx context.Context, ev Event)
}

// Watcher subscribes recursively to root and feeds a Queue drained into a
// Handler.
type Watcher struct {
	root    string
	roots   []string
	fs      *fsnotify.Watcher
	queue   *Queue
	handler Handler
	logger  *slog.Logger
}

// New creates a recursive watcher over root. Newly created directories are
// added as they appear.
func New(root string, handler Handler, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("create entry directory: %w", err)
	}
	w := &Watcher{root: root, roots: []string{root}, fs: fw, queue: NewQueue(debounce), handler: handler, logger: logger}
	if err := w.addDirsRecursive(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// AddRoot watches another tree, such as the static directory, recursively. A
// missing directory is skipped.
func (w *Watcher) AddRoot(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		w.logger.Debug("Watch root not found", logfields.Path(dir))
		return nil
	}
	w.roots = append(w.roots, dir)
	return w.addDirsRecursive(dir)
}

// Queue returns the event queue.
func (w *Watcher) Queue() *Queue { return w.queue }

// Run pumps notifications until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	go w.queue.Run(ctx, w.handler.Process)
	w.logger.Info("Watching for changes", logfields.Path(w.root))

	for {
		select {
		case <-ctx.Done():
			return w.Close()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// Close stops the underlying subscription.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) handleFileEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	mapped, ok := FromFSNotify(ev)
	if !ok {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.queue.Push(mapped)
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if !slices.Contains(w.roots, path) && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
