package linear

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cbuild/internal/core/ports"
)

// NodeID is the unique identifier for the renderer Graft node.
const NodeID graft.ID = "adapter.renderer"

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.Renderer, error) {
			return NewRenderer(nil, nil), nil
		},
	})
}
