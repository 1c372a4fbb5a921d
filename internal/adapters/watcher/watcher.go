package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements recursive file system watching using fsnotify.
// Hidden directories and the configured skip directories are not watched, so
// object files and caches written by a build do not trigger another build.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	skip      map[string]bool
	root      string
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher. skipDirs are absolute or
// relative directory paths excluded from watching.
func NewWatcher(logger ports.Logger, skipDirs ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	w := &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		skip:      make(map[string]bool, len(skipDirs)),
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}
	w.SkipDirs(skipDirs...)
	return w, nil
}

// SkipDirs excludes more directories. It must be called before Start.
func (w *Watcher) SkipDirs(dirs ...string) {
	for _, dir := range dirs {
		if abs, err := filepath.Abs(dir); err == nil {
			w.skip[abs] = true
		}
	}
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve watch root"), "path", root)
	}

	w.root = root

	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events. It ends when the watcher
// is stopped or the context passed to Start is cancelled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields every watched directory.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if w.shouldSkip(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) shouldSkip(path string) bool {
	if path == w.root {
		return false
	}
	name := filepath.Base(path)
	if len(name) > 1 && strings.HasPrefix(name, ".") {
		return true
	}
	return w.skip[path]
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok || w.shouldSkip(filepath.Dir(watchEvent.Path)) {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			// New directories are watched as soon as they appear.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.shouldSkip(event.Name) {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher: " + err.Error())
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent.
// Attribute-only changes are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
