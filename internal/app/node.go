package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tabworker/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tabworker/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/tabworker/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/tabworker/internal/engine/assets"
	"go.trai.ch/tabworker/internal/engine/contentcache"
	"go.trai.ch/tabworker/internal/engine/orchestrator"
	"go.trai.ch/tabworker/internal/engine/router"
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
			orchestrator.NodeID,
			contentcache.NodeID,
			router.NodeID,
			assets.NodeID,
			watcher.NodeID,
			logger.NodeID,
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
			config.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[*contentcache.Cache](ctx)
	if err != nil {
		return nil, err
	}

	rt, err := graft.Dep[*router.Router](ctx)
	if err != nil {
		return nil, err
	}

	builder, err := graft.Dep[*assets.Builder](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(orch, cache, rt, builder, w, log).WithAddr(cfg.Server.Addr), nil
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

	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
		Config: cfg,
		Tracer: tracer,
	}, nil
}
