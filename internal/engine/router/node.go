package router

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/tabworker/internal/engine/manifests"
)

// NodeID is the unique identifier for the request router Graft node.
const NodeID graft.ID = "engine.router"

func init() {
	graft.Register(graft.Node[*Router]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, manifests.NodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (*Router, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.ManifestResolver](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return New(resolver, tracer, cfg.Storage.ObjectURLBase), nil
		},
	})
}
