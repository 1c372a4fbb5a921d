// Package builder drives the per-unit compile and link pipeline and builds
// units in dependency order.
package builder

import (
	"context"

	"go.trai.ch/cbuild/internal/core/domain"
	"go.trai.ch/cbuild/internal/core/ports"
)

// Options are the per-run settings shared by every unit.
type Options struct {
	// Defaults are merged into each unit during preparation.
	Defaults domain.Defaults
	// CacheDir holds the per-unit cache files. Empty means the working directory.
	CacheDir string
	// ForceRebuild discards existing caches and recompiles every source.
	ForceRebuild bool
}

// Builder compiles and links units. Units are built one at a time and every
// tool invocation blocks until it exits.
type Builder struct {
	checksummer ports.Checksummer
	store       ports.CacheStore
	resolver    ports.SourceResolver
	executor    ports.Executor
	tracer      ports.Tracer
	logger      ports.Logger
}

// New creates a new Builder with the given dependencies.
func New(
	checksummer ports.Checksummer,
	store ports.CacheStore,
	resolver ports.SourceResolver,
	executor ports.Executor,
	tracer ports.Tracer,
	logger ports.Logger,
) *Builder {
	return &Builder{
		checksummer: checksummer,
		store:       store,
		resolver:    resolver,
		executor:    executor,
		tracer:      tracer,
		logger:      logger,
	}
}

// Build compiles every unit of graph that is not built yet, dependencies first.
// A cycle or unknown dependency fails before any tool runs.
func (b *Builder) Build(ctx context.Context, graph *domain.Graph, opts Options) error {
	order, err := graph.Order()
	if err != nil {
		return err
	}
	return b.run(ctx, order, opts)
}

// BuildDependency builds the named unit after its transitive dependencies.
func (b *Builder) BuildDependency(ctx context.Context, graph *domain.Graph, name string, opts Options) error {
	return b.BuildTargets(ctx, graph, []string{name}, opts)
}

// BuildTargets builds the named units and everything they depend on.
func (b *Builder) BuildTargets(ctx context.Context, graph *domain.Graph, names []string, opts Options) error {
	order, err := graph.OrderFor(names...)
	if err != nil {
		return err
	}
	return b.run(ctx, order, opts)
}

func (b *Builder) run(ctx context.Context, order []*domain.Unit, opts Options) error {
	planned := make([]string, 0, len(order))
	for _, u := range order {
		if !u.Built {
			planned = append(planned, u.Name)
		}
	}
	b.tracer.EmitPlan(ctx, planned)

	for _, u := range order {
		if u.Built {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Compile(ctx, u, opts); err != nil {
			return err
		}
	}
	return nil
}
