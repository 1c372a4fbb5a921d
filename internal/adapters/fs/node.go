package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cbuild/internal/core/ports"
)

const (
	// WalkerNodeID is the graft ID for the recursive file walker.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// ResolverNodeID is the graft ID for the source resolver.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	// ChecksummerNodeID is the graft ID for the content checksummer.
	ChecksummerNodeID graft.ID = "adapter.fs.checksummer"
)

func init() {
	// Walker Node (Concrete implementation needed by Resolver)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.SourceResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.SourceResolver, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(walker), nil
		},
	})

	graft.Register(graft.Node[ports.Checksummer]{
		ID:        ChecksummerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Checksummer, error) {
			return NewChecksummer(), nil
		},
	})
}
