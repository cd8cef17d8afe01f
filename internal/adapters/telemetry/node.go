package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/config"
	"go.trai.ch/tabworker/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			if !cfg.Telemetry.Stdout {
				return NewNoOpTracer(), nil
			}
			provider, err := NewProvider(os.Stderr)
			if err != nil {
				return nil, err
			}
			return provider.Tracer(), nil
		},
	})
}
