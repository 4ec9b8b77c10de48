package fsbackend

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stagehand/internal/adapters/logger"
	"go.trai.ch/stagehand/internal/core/ports"
)

// NodeID is the graft node providing the load backend.
const NodeID graft.ID = "adapter.backend"

func init() {
	graft.Register(graft.Node[ports.LoadBackend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.LoadBackend, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(".", log), nil
		},
	})
}
