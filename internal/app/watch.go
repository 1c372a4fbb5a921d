package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"go.trai.ch/cbuild/internal/adapters/fs"
	"go.trai.ch/cbuild/internal/adapters/watcher"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch builds once, then rebuilds whenever a source of a unit or the project
// file changes. It returns when ctx is cancelled. Build failures are logged
// and the watch continues.
func (a *App) Watch(ctx context.Context, targets []string, s domain.Settings) error {
	a.applySettings(s)

	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	tracer, shutdown := a.startTracing()
	defer shutdown()

	var filter atomic.Pointer[watchFilter]
	rebuild := func() {
		sess, err := a.build(ctx, tracer, targets, s)
		if err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
		filter.Store(newWatchFilter(root, sess))
	}

	rebuild()
	// Only the first build honours --clear-cache.
	s.ClearCache = false

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()
	a.logger.Notice("watching " + root + " for changes")

	trigger := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case trigger <- paths:
		default:
			// A rebuild is already queued and will see these changes.
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for ev := range a.watcher.Events() {
			if filter.Load().Matches(ev.Path) {
				a.logger.Debug(fmt.Sprintf("watch: %s %s", ev.Operation, ev.Path))
				debouncer.Add(ev.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-trigger:
				a.logger.Info(fmt.Sprintf("change detected: %s", strings.Join(paths, ", ")))
				rebuild()
			}
		}
	})

	return g.Wait()
}

type watchDir struct {
	path      string
	recursive bool
	exts      []string
}

// watchFilter decides which changed paths trigger a rebuild.
type watchFilter struct {
	files  map[string]bool
	dirs   []watchDir
	ignore map[string]bool
}

func newWatchFilter(root string, sess *session) *watchFilter {
	f := &watchFilter{
		files:  map[string]bool{filepath.Join(root, domain.ProjectFileName): true},
		ignore: make(map[string]bool),
	}
	if sess == nil {
		return f
	}

	if sess.project.Header.Path != "" {
		f.ignore[absPath(sess.project.Header.Path)] = true
	}

	for u := range sess.project.Graph.Units() {
		e := u.Effective(sess.defaults)
		for _, src := range e.Sources {
			f.files[absPath(src)] = true
		}
		if !e.GlobEnabled() {
			continue
		}
		for _, dir := range e.SourcePaths {
			d, recursive := strings.CutSuffix(dir, fs.RecursiveSuffix)
			f.dirs = append(f.dirs, watchDir{path: absPath(d), recursive: recursive, exts: e.Extensions})
		}
	}
	return f
}

// Matches reports whether a change to path affects the build.
func (f *watchFilter) Matches(path string) bool {
	if f == nil {
		return false
	}
	path = absPath(path)
	if f.ignore[path] {
		return false
	}
	if f.files[path] {
		return true
	}

	dir := filepath.Dir(path)
	for _, d := range f.dirs {
		inside := dir == d.path
		if !inside && d.recursive {
			rel, err := filepath.Rel(d.path, dir)
			inside = err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
		}
		if inside && (len(d.exts) == 0 || slices.Contains(d.exts, filepath.Ext(path))) {
			return true
		}
	}
	return false
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
