// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stagehand/internal/adapters/config"
	_ "go.trai.ch/stagehand/internal/adapters/fsbackend"
	_ "go.trai.ch/stagehand/internal/adapters/logger"
	_ "go.trai.ch/stagehand/internal/adapters/stage"
	_ "go.trai.ch/stagehand/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/stagehand/internal/app"
)
