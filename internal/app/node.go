package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cbuild/internal/adapters/cas"
	"go.trai.ch/cbuild/internal/adapters/config"
	"go.trai.ch/cbuild/internal/adapters/fs"
	"go.trai.ch/cbuild/internal/adapters/header"
	"go.trai.ch/cbuild/internal/adapters/linear"
	"go.trai.ch/cbuild/internal/adapters/logger"
	"go.trai.ch/cbuild/internal/adapters/shell"
	"go.trai.ch/cbuild/internal/adapters/watcher"
	"go.trai.ch/cbuild/internal/core/ports"
)

// NodeID is the unique identifier for the application Graft node.
const NodeID graft.ID = "app.components"

// Components holds everything main needs to run the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			logger.NodeID,
			cas.NodeID,
			fs.ChecksummerNodeID,
			fs.ResolverNodeID,
			header.NodeID,
			linear.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			checksummer, err := graft.Dep[ports.Checksummer](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.SourceResolver](ctx)
			if err != nil {
				return nil, err
			}
			headerWriter, err := graft.Dep[ports.HeaderWriter](ctx)
			if err != nil {
				return nil, err
			}
			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    New(loader, executor, log, store, checksummer, resolver, headerWriter, renderer, w),
				Logger: log,
			}, nil
		},
	})
}
