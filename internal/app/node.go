package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stagehand/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/stagehand/internal/adapters/fsbackend"          //nolint:depguard // Wired in app layer
	"go.trai.ch/stagehand/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/stagehand/internal/adapters/stage"              //nolint:depguard // Wired in app layer
	"go.trai.ch/stagehand/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/stagehand/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			progrock.NodeID,
			stage.NodeID,
			fsbackend.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	container, err := graft.Dep[ports.Container](ctx)
	if err != nil {
		return nil, err
	}

	backend, err := graft.Dep[ports.LoadBackend](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, telemetry, container, backend), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
