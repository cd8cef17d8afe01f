package contentcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/blobstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/tabworker/internal/engine/manifests"
)

// NodeID is the unique identifier for the content cache Graft node.
const NodeID graft.ID = "engine.contentcache"

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			blobstore.NodeID,
			manifests.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Cache, error) {
			store, err := graft.Dep[ports.BlobStore](ctx)
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
			return New(store, resolver, tracer, log), nil
		},
	})
}
