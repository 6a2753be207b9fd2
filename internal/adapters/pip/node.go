package pip

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/adapters/shell"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the installer Graft node.
	NodeID graft.ID = "adapter.installer"

	// FallbackNodeID is the unique identifier for the best-effort tier node.
	FallbackNodeID graft.ID = "adapter.fallback_resolver"
)

func init() {
	graft.Register(graft.Node[ports.Installer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID, settings.NodeID},
		Run: func(ctx context.Context) (ports.Installer, error) {
			executor, err := graft.Dep[ports.CommandExecutor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(executor, log, cfg.WheelsDir), nil
		},
	})

	graft.Register(graft.Node[*FallbackResolver]{
		ID:        FallbackNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*FallbackResolver, error) {
			executor, err := graft.Dep[ports.CommandExecutor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFallbackResolver(executor, log), nil
		},
	})
}
