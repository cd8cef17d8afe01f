package assets

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/blobstore" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/tabworker/internal/core/ports"
)

// NodeID is the unique identifier for the asset builder Graft node.
const NodeID graft.ID = "engine.assets"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.WalkerNodeID,
			fs.HasherNodeID,
			blobstore.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			walker, err := graft.Dep[ports.FileWalker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.BlobStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(walker, hasher, store, log), nil
		},
	})
}
