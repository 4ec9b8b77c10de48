package stage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stagehand/internal/core/ports"
)

// NodeID is the graft node providing the host container.
const NodeID graft.ID = "adapter.container"

func init() {
	graft.Register(graft.Node[ports.Container]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Container, error) {
			return New(), nil
		},
	})
}
