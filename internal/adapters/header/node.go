package header

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cbuild/internal/core/ports"
)

// NodeID is the unique identifier for the header writer Graft node.
const NodeID graft.ID = "adapter.header"

func init() {
	graft.Register(graft.Node[ports.HeaderWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.HeaderWriter, error) {
			return NewWriter(), nil
		},
	})
}
