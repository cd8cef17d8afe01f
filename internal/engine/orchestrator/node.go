package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/chrome"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/tabworker/internal/engine/manifests"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			chrome.NodeID,
			manifests.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			driver, err := graft.Dep[ports.BrowserDriver](ctx)
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
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(driver, resolver, tracer, log), nil
		},
	})
}
