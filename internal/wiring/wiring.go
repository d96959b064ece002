// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/prajithkb/metro/internal/adapters/config"
	_ "github.com/prajithkb/metro/internal/adapters/logger"
	_ "github.com/prajithkb/metro/internal/adapters/telemetry"
	_ "github.com/prajithkb/metro/internal/adapters/watcher"
	// Register app nodes.
	_ "github.com/prajithkb/metro/internal/app"
)
