package chrome

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tabworker/internal/adapters/config"
	"go.trai.ch/tabworker/internal/core/ports"
)

// NodeID is the unique identifier for the browser driver Graft node.
const NodeID graft.ID = "adapter.chrome"

func init() {
	graft.Register(graft.Node[ports.BrowserDriver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.BrowserDriver, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewDriver(Config{
				RemoteURL:  cfg.Browser.RemoteURL,
				ExecPath:   cfg.Browser.ExecPath,
				Headless:   cfg.Browser.Headless,
				Entrypoint: cfg.Browser.Entrypoint,
				Flags:      cfg.Browser.Flags,
			}), nil
		},
	})
}
