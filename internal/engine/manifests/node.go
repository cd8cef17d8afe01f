package manifests

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/blobstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/core/ports"
)

// NodeID is the unique identifier for the manifest resolver Graft node.
const NodeID graft.ID = "engine.manifests"

func init() {
	graft.Register(graft.Node[ports.ManifestResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, blobstore.NodeID},
		Run: func(ctx context.Context) (ports.ManifestResolver, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.BlobStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(store, cfg.Manifests.CacheSize, cfg.Manifests.CacheTTL), nil
		},
	})
}
