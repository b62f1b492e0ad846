// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/droidcfg/internal/adapters/cas"
	_ "go.trai.ch/droidcfg/internal/adapters/config"
	_ "go.trai.ch/droidcfg/internal/adapters/logger"
	_ "go.trai.ch/droidcfg/internal/adapters/maven"
	_ "go.trai.ch/droidcfg/internal/adapters/pgp"
	_ "go.trai.ch/droidcfg/internal/adapters/telemetry"
	_ "go.trai.ch/droidcfg/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/droidcfg/internal/app"
	_ "go.trai.ch/droidcfg/internal/engine/planner"
	_ "go.trai.ch/droidcfg/internal/engine/resolver"
)
