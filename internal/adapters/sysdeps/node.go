package sysdeps

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/shell"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// NodeID is the unique identifier for the system installer Graft node.
const NodeID graft.ID = "adapter.sysdeps"

func init() {
	graft.Register(graft.Node[ports.SystemInstaller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.SystemInstaller, error) {
			executor, err := graft.Dep[ports.CommandExecutor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPkgInstaller(executor, log), nil
		},
	})
}
