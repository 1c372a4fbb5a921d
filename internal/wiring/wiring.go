// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cbuild/internal/adapters/cas"
	_ "go.trai.ch/cbuild/internal/adapters/config"
	_ "go.trai.ch/cbuild/internal/adapters/fs"
	_ "go.trai.ch/cbuild/internal/adapters/header"
	_ "go.trai.ch/cbuild/internal/adapters/linear"
	_ "go.trai.ch/cbuild/internal/adapters/logger"
	_ "go.trai.ch/cbuild/internal/adapters/shell"
	_ "go.trai.ch/cbuild/internal/adapters/watcher"
	// Register the application node.
	_ "go.trai.ch/cbuild/internal/app"
)
