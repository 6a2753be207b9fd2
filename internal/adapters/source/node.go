package source

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/adapters/shell"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

const (
	// FetcherNodeID is the unique identifier for the source fetcher Graft node.
	FetcherNodeID graft.ID = "adapter.fetcher"

	// PatcherNodeID is the unique identifier for the source patcher Graft node.
	PatcherNodeID graft.ID = "adapter.patcher"
)

func init() {
	graft.Register(graft.Node[*Fetcher]{
		ID:        FetcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID, settings.NodeID},
		Run: func(ctx context.Context) (*Fetcher, error) {
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
			return NewFetcher(executor, log, domain.WorkPath(cfg.StateDir)), nil
		},
	})

	graft.Register(graft.Node[*Patcher]{
		ID:        PatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Patcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPatcher(log), nil
		},
	})
}
