// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/tabworker/internal/adapters/blobstore"
	_ "go.trai.ch/tabworker/internal/adapters/chrome"
	_ "go.trai.ch/tabworker/internal/adapters/config"
	_ "go.trai.ch/tabworker/internal/adapters/fs"
	_ "go.trai.ch/tabworker/internal/adapters/logger"
	_ "go.trai.ch/tabworker/internal/adapters/telemetry"
	_ "go.trai.ch/tabworker/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/tabworker/internal/app"
	_ "go.trai.ch/tabworker/internal/engine/assets"
	_ "go.trai.ch/tabworker/internal/engine/contentcache"
	_ "go.trai.ch/tabworker/internal/engine/manifests"
	_ "go.trai.ch/tabworker/internal/engine/orchestrator"
	_ "go.trai.ch/tabworker/internal/engine/router"
)
