package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/cbuild/internal/adapters/telemetry"
	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/engine/builder"
	"go.trai.ch/zerr"
)

// Clean removes the objects, targets and cache files of every unit.
func (a *App) Clean(_ context.Context, s domain.Settings) error {
	a.applySettings(s)

	sess, err := a.load(s)
	if err != nil {
		return err
	}

	b := builder.New(a.checksummer, a.store, a.resolver, a.executor, telemetry.Discard, a.logger)

	var errs error
	for u := range sess.project.Graph.Units() {
		e, err := b.Prepare(u, sess.defaults)
		if err != nil {
			// Without sources the objects are unknown, the target can still go.
			a.logger.Warn(fmt.Sprintf("%s: cannot resolve objects: %v", u.Name, err))
			e = u.Effective(sess.defaults)
		}

		for _, obj := range e.Objects {
			errs = errors.Join(errs, a.removeArtifact(obj))
		}
		if e.Target != "" {
			errs = errors.Join(errs, a.removeArtifact(e.TargetFile()))
		}

		if err := a.store.Remove(domain.CachePath(s.CacheDir, u.Name)); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	if errs != nil {
		return errs
	}
	a.logger.Notice("clean finished")
	return nil
}

func (a *App) removeArtifact(path string) error {
	err := os.Remove(path)
	switch {
	case err == nil:
		a.logger.Info("removed " + path)
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return zerr.With(errors.Join(domain.ErrCleanFailed, err), "path", path)
	}
}
