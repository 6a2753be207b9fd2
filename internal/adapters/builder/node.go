package builder

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/locator"
	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/adapters/shell"
	"github.com/droidrun/depbuilder/internal/adapters/source"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

const (
	// EnvNodeID is the unique identifier for the build environment Graft node.
	EnvNodeID graft.ID = "adapter.build_env"

	// NodeID is the unique identifier for the build executor Graft node.
	NodeID graft.ID = "adapter.builder"

	// ResolverNodeID is the unique identifier for the source-build tier node.
	ResolverNodeID graft.ID = "adapter.source_build_resolver"
)

func init() {
	graft.Register(graft.Node[ports.BuildEnvironment]{
		ID:        EnvNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.BuildEnvironment, error) {
			cfg, err := graft.Dep[settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewEnvironment(cfg.Jobs), nil
		},
	})

	graft.Register(graft.Node[ports.BuildExecutor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID, settings.NodeID, EnvNodeID, locator.IndexNodeID},
		Run: func(ctx context.Context) (ports.BuildExecutor, error) {
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
			env, err := graft.Dep[ports.BuildEnvironment](ctx)
			if err != nil {
				return nil, err
			}
			index, err := graft.Dep[*locator.ChecksumIndex](ctx)
			if err != nil {
				return nil, err
			}

			platform := domain.DetectPlatform(cfg.PythonVersion)
			return NewBuilder(executor, env, index, log, cfg.WheelsDir, platform), nil
		},
	})

	graft.Register(graft.Node[*SourceBuildResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{source.FetcherNodeID, source.PatcherNodeID, NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*SourceBuildResolver, error) {
			fetcher, err := graft.Dep[*source.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			patcher, err := graft.Dep[*source.Patcher](ctx)
			if err != nil {
				return nil, err
			}
			build, err := graft.Dep[ports.BuildExecutor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSourceBuildResolver(fetcher, patcher, build, log), nil
		},
	})
}
