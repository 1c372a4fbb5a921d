package builder

import (
	"slices"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Prepare returns the effective form of u: defaults and mode overlay merged,
// validated, sources resolved and objects derived. u itself is not modified.
func (b *Builder) Prepare(u *domain.Unit, defaults domain.Defaults) (*domain.Unit, error) {
	e := u.Effective(defaults)
	if err := e.Validate(); err != nil {
		return nil, err
	}

	sources := slices.Clone(e.Sources)
	if e.GlobEnabled() && len(e.SourcePaths) > 0 {
		found, err := b.resolver.Glob(e.SourcePaths, e.Extensions)
		if err != nil {
			return nil, zerr.With(err, "unit", e.Name)
		}
		sources = append(sources, found...)
	}

	sources, err := b.resolver.Dedupe(sources)
	if err != nil {
		return nil, zerr.With(err, "unit", e.Name)
	}
	if len(sources) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoSources, "failed to prepare unit"), "unit", e.Name)
	}

	e.Sources = sources
	e.DeriveObjects()

	owners := make(map[string]string, len(e.Objects))
	for i, obj := range e.Objects {
		if prev, ok := owners[obj]; ok {
			return nil, zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrObjectCollision, "failed to prepare unit"),
				"unit", e.Name), "object", obj), "sources", prev+", "+e.Sources[i])
		}
		owners[obj] = e.Sources[i]
	}

	return e, nil
}
