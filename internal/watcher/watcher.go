// Package watcher reports playable files that appear in watched directories.
// A file is handed over only after it has stopped changing for the settle
// period, so files still being copied in are not renamed half written.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Nomadcxx/fixnums/internal/logging"
	"github.com/Nomadcxx/fixnums/internal/scanner"
)

// DefaultSettle is how long a new file must stay quiet before it is handled.
const DefaultSettle = 2 * time.Second

type EventType string

const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
)

type FileEvent struct {
	Type EventType
	Path string
}

type Handler interface {
	HandleFileEvent(event FileEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(event FileEvent) error

func (f HandlerFunc) HandleFileEvent(event FileEvent) error {
	return f(event)
}

type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	handler    Handler
	logger     *logging.Logger
	extensions []string
	recursive  bool
	settle     time.Duration

	// pending maps a path to its last activity and first seen event type.
	pending map[string]pendingFile
}

type pendingFile struct {
	firstType EventType
	lastSeen  time.Time
}

type Option func(*Watcher)

func WithRecursive(recursive bool) Option {
	return func(w *Watcher) {
		w.recursive = recursive
	}
}

// WithSettle sets the quiet period before a file is handled.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a watcher for files with the given extensions.
func NewWatcher(handler Handler, extensions []string, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		handler:    handler,
		logger:     logging.Nop(),
		extensions: extensions,
		settle:     DefaultSettle,
		pending:    make(map[string]pendingFile),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if w.recursive {
			if err := w.addRecursive(path); err != nil {
				return err
			}
		} else {
			if err := w.fsWatcher.Add(path); err != nil {
				return fmt.Errorf("unable to watch %s: %w", path, err)
			}
			w.logger.Info("watcher", "Watching directory", logging.F("path", path))
		}
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("unable to watch %s: %w", path, err)
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("unable to watch %s: %w", path, err)
		}
		w.logger.Info("watcher", "Watching directory", logging.F("path", path))
		return nil
	})
}

// Start runs the event loop until ctx is done. Files are handed to the
// handler one at a time on this goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	tick := w.settle / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.observe(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn("watcher", "Watcher error", logging.F("error", err))

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

func (w *Watcher) observe(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.recursive && !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.fsWatcher.Add(event.Name); err == nil {
					w.logger.Info("watcher", "Now watching new directory", logging.F("path", event.Name))
				}
			}
			return
		}
	}

	if !scanner.IsPlayable(event.Name, w.extensions) {
		return
	}

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		w.touch(event.Name, EventCreate)
	case event.Op&fsnotify.Write == fsnotify.Write:
		// Writes only extend the quiet period of files seen being created.
		if _, ok := w.pending[event.Name]; ok {
			w.touch(event.Name, EventWrite)
		}
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(w.pending, event.Name)
	}
}

func (w *Watcher) touch(path string, typ EventType) {
	p, ok := w.pending[path]
	if !ok {
		p.firstType = typ
	}
	p.lastSeen = time.Now()
	w.pending[path] = p
}

// flush hands over every pending file that has been quiet for the settle
// period, in path order.
func (w *Watcher) flush(now time.Time) {
	var ready []string
	for path, p := range w.pending {
		if now.Sub(p.lastSeen) >= w.settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		p := w.pending[path]
		delete(w.pending, path)

		if _, err := os.Stat(path); err != nil {
			continue
		}

		w.logger.Debug("watcher", "File settled", logging.F("path", filepath.Base(path)))
		if err := w.handler.HandleFileEvent(FileEvent{Type: p.firstType, Path: path}); err != nil {
			w.logger.Error("watcher", "Error handling event", err, logging.F("path", path))
		}
	}
}
