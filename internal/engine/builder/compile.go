package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
	"go.trai.ch/cbuild/internal/engine/cache"
	"go.trai.ch/zerr"
)

// Compile runs the full pipeline for one unit: prepare, consult the cache,
// recompile stale sources, save the cache and relink when an object changed
// or the target is missing. u.Built is set on success.
func (b *Builder) Compile(ctx context.Context, u *domain.Unit, opts Options) error {
	ctx, span := b.tracer.Start(ctx, u.Name, ports.WithAttribute("cbuild.unit", u.Name))
	defer span.End()

	if err := b.compile(ctx, span, u, opts); err != nil {
		span.RecordError(err)
		return err
	}
	u.Built = true
	return nil
}

func (b *Builder) compile(ctx context.Context, span ports.Span, u *domain.Unit, opts Options) error {
	e, err := b.Prepare(u, opts.Defaults)
	if err != nil {
		return err
	}
	for _, line := range e.Describe() {
		b.logger.Debug(line)
	}

	sums, err := b.includeSums(e)
	if err != nil {
		return zerr.With(err, "unit", e.Name)
	}
	fingerprint := Fingerprint(e, sums)
	cachePath := domain.CachePath(opts.CacheDir, e.Name)
	target := e.TargetFile()

	tc := cache.New(b.checksummer, b.store)
	loaded := false
	if !opts.ForceRebuild {
		if loaded, err = b.loadCache(tc, cachePath, fingerprint, e.Name); err != nil {
			return err
		}
	}

	relink := false
	if loaded {
		b.dumpCache(e.Name, tc)

		if relink, err = tc.Reconcile(e.Sources, e.Objects); err != nil {
			return err
		}
		stale, err := b.NeedsRecompile(tc, e)
		if err != nil {
			return err
		}
		if !stale && !relink && b.checksummer.Exists(target) {
			span.SetAttribute("cbuild.cached", true)
			b.logger.Notice(fmt.Sprintf("%s is up to date", e.Name))
			return nil
		}
	} else {
		tc.Clear()
		if err := tc.Create(e.Sources, e.Objects); err != nil {
			return err
		}
	}
	tc.SetFingerprint(fingerprint)

	snapshot := tc.Snapshot()

	if err := b.compileSources(ctx, e, tc); err != nil {
		return err
	}

	if err := tc.Save(cachePath); err != nil {
		return zerr.With(err, "unit", e.Name)
	}

	if !relink {
		relink = objectsChanged(snapshot, tc.Entries())
	}
	if !relink && b.checksummer.Exists(target) {
		b.logger.Notice(fmt.Sprintf("%s: objects unchanged, skipping link", e.Name))
		return nil
	}

	return b.link(ctx, e)
}

// NeedsRecompile marks every source of u that is not up to date, or whose
// object is missing, for recompilation and reports whether any was found.
// Sources already in the recompile set stay there.
func (b *Builder) NeedsRecompile(tc *cache.TaskCache, u *domain.Unit) (bool, error) {
	stale := false
	for i, src := range u.Sources {
		ok, err := tc.IsSourceUpToDate(src)
		if err != nil {
			return false, zerr.With(err, "unit", u.Name)
		}
		if !ok || !b.checksummer.Exists(u.Objects[i]) {
			tc.MarkRecompile(src)
			stale = true
		}
	}
	return stale || len(tc.RecompileSet()) > 0, nil
}

func (b *Builder) loadCache(tc *cache.TaskCache, path, fingerprint, unit string) (bool, error) {
	found, err := tc.Load(path)
	if errors.Is(err, domain.ErrCacheCorrupt) {
		b.logger.Warn(fmt.Sprintf("%s: ignoring unreadable cache %s", unit, path))
		tc.Clear()
		return false, nil
	}
	if err != nil {
		return false, zerr.With(err, "unit", unit)
	}
	if found && tc.Fingerprint() != fingerprint {
		b.logger.Detail(fmt.Sprintf("%s: compile settings changed, rebuilding", unit))
		tc.Clear()
		return false, nil
	}
	return found, nil
}

func (b *Builder) compileSources(ctx context.Context, u *domain.Unit, tc *cache.TaskCache) error {
	if len(tc.RecompileSet()) == 0 {
		return nil
	}
	if err := os.MkdirAll(u.ObjectDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.With(errors.Join(domain.ErrObjectDirCreateFailed, err), "unit", u.Name), "path", u.ObjectDir)
	}

	for i, src := range u.Sources {
		if !tc.NeedsRecompile(src) {
			continue
		}
		obj := u.Objects[i]
		cmd := CompileCommand(u, src, obj)

		b.logger.Info(fmt.Sprintf("%s: compiling %s", u.Name, src))
		b.logger.Detail(cmd.String())

		if err := b.execute(ctx, filepath.Base(src), cmd); err != nil {
			return zerr.With(zerr.With(errors.Join(domain.ErrCompileFailed, err), "unit", u.Name), "source", src)
		}

		if err := tc.UpdateSource(src); err != nil {
			return zerr.With(err, "unit", u.Name)
		}
		if err := tc.UpdateObject(obj); err != nil {
			return zerr.With(err, "unit", u.Name)
		}
	}
	return nil
}

func (b *Builder) link(ctx context.Context, u *domain.Unit) error {
	target := u.TargetFile()
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.With(errors.Join(domain.ErrTargetDirCreateFailed, err), "unit", u.Name), "path", dir)
		}
	}

	cmd := LinkCommand(u)
	kind, verb := domain.ErrLinkFailed, "linking"
	if u.Type == domain.TypeStatic {
		kind, verb = domain.ErrArchiveFailed, "archiving"
	}

	b.logger.Info(fmt.Sprintf("%s: %s %s", u.Name, verb, target))
	b.logger.Detail(cmd.String())

	if err := b.execute(ctx, filepath.Base(target), cmd); err != nil {
		return zerr.With(zerr.With(errors.Join(kind, err), "unit", u.Name), "target", target)
	}

	b.logger.Notice(fmt.Sprintf("%s: built %s", u.Name, target))
	return nil
}

// execute runs cmd in a child span whose output is the tool's output.
func (b *Builder) execute(ctx context.Context, name string, cmd domain.Command) error {
	ctx, span := b.tracer.Start(ctx, name, ports.WithAttribute("cbuild.command", cmd.String()))
	defer span.End()

	if err := b.executor.Execute(ctx, cmd, span, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// objectsChanged compares object checksums index by index.
func objectsChanged(before, after []domain.CacheEntry) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i].ObjectChecksum != after[i].ObjectChecksum {
			return true
		}
	}
	return false
}

func (b *Builder) dumpCache(unit string, tc *cache.TaskCache) {
	for _, e := range tc.Entries() {
		b.logger.Debug(fmt.Sprintf("%s cache: %s %s -> %s %s", unit, e.Source, e.SourceChecksum, e.Object, e.ObjectChecksum))
	}
}
