package blobstore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/config"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the blob store Graft node.
const NodeID graft.ID = "adapter.blobstore"

func init() {
	graft.Register(graft.Node[ports.BlobStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.BlobStore, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Storage)
		},
	})
}

// New creates the store selected by cfg.Backend.
func New(cfg config.StorageConfig) (ports.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendS3:
		return NewS3Store(S3Config{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			PageSize:  cfg.PageSize,
		})
	case config.BackendMemory:
		return NewMemoryStore(cfg.PageSize), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownBackend, "unsupported backend"), "backend", cfg.Backend)
	}
}
