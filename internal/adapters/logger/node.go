package logger

import (
	"context"
	"os"
	"strconv"

	"github.com/grindlemire/graft"
	"go.trai.ch/cbuild/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// JSONEnvVar switches the logger to JSON before any flag is parsed.
const JSONEnvVar = "CBUILD_JSON"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := New().(*Logger)
			if on, err := strconv.ParseBool(os.Getenv(JSONEnvVar)); err == nil {
				l.SetJSON(on)
			}
			return l, nil
		},
	})
}
