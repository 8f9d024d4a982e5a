// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/otto/internal/adapters/fingerprint"
	_ "go.trai.ch/otto/internal/adapters/logger"
	_ "go.trai.ch/otto/internal/adapters/manifest"
	_ "go.trai.ch/otto/internal/adapters/telemetry"
	_ "go.trai.ch/otto/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/otto/internal/app"
	_ "go.trai.ch/otto/internal/engine/scheduler"
)
