package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.trai.ch/cbuild/internal/core/domain"
)

// ShowCache prints every cache file found in the cache directory.
func (a *App) ShowCache(_ context.Context, s domain.Settings) error {
	a.applySettings(s)

	sess, err := a.load(s)
	if err != nil {
		return err
	}

	files, err := a.store.List(cacheDir(s))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(a.out, "no cache files in "+cacheDir(s))
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(files)) {
		path := files[name]
		header := name + " (" + path + ")"
		if _, ok := sess.project.Graph.Get(name); !ok {
			header += " [unknown unit]"
		}
		_, _ = fmt.Fprintln(a.out, header)

		file, err := a.store.Read(path)
		if errors.Is(err, domain.ErrCacheCorrupt) {
			_, _ = fmt.Fprintln(a.out, "  corrupt or incompatible")
			continue
		}
		if err != nil {
			return err
		}
		if file == nil {
			continue
		}

		_, _ = fmt.Fprintf(a.out, "  fingerprint: %s\n", file.Fingerprint)
		for _, e := range file.Entries {
			_, _ = fmt.Fprintf(a.out, "  %s [%s] -> %s [%s]\n", e.Source, e.SourceChecksum, e.Object, e.ObjectChecksum)
		}
	}
	return nil
}

// ClearCache deletes every cache file in the cache directory.
func (a *App) ClearCache(_ context.Context, s domain.Settings) error {
	a.applySettings(s)
	return a.clearCaches(cacheDir(s))
}

func (a *App) clearCaches(dir string) error {
	files, err := a.store.List(dir)
	if err != nil {
		return err
	}

	var errs error
	for _, name := range slices.Sorted(maps.Keys(files)) {
		if err := a.store.Remove(files[name]); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Info("removed cache " + files[name])
	}
	return errs
}
