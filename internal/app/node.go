package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/builder"
	"github.com/droidrun/depbuilder/internal/adapters/locator"
	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/manifest"
	"github.com/droidrun/depbuilder/internal/adapters/pip"
	"github.com/droidrun/depbuilder/internal/adapters/pypi"
	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/adapters/state"
	"github.com/droidrun/depbuilder/internal/adapters/sysdeps"
	"github.com/droidrun/depbuilder/internal/core/ports"
	"github.com/droidrun/depbuilder/internal/engine/fallback"
)

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

// Components aggregates the resolved application dependencies for the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			state.NodeID,
			pip.NodeID,
			pip.FallbackNodeID,
			sysdeps.NodeID,
			builder.EnvNodeID,
			builder.ResolverNodeID,
			locator.NodeID,
			pypi.NodeID,
			logger.NodeID,
			settings.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ManifestLoader](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.StateStore](ctx)
			if err != nil {
				return nil, err
			}
			installer, err := graft.Dep[ports.Installer](ctx)
			if err != nil {
				return nil, err
			}
			bestEffort, err := graft.Dep[*pip.FallbackResolver](ctx)
			if err != nil {
				return nil, err
			}
			system, err := graft.Dep[ports.SystemInstaller](ctx)
			if err != nil {
				return nil, err
			}
			buildEnv, err := graft.Dep[ports.BuildEnvironment](ctx)
			if err != nil {
				return nil, err
			}
			sourceBuild, err := graft.Dep[*builder.SourceBuildResolver](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[*locator.Locator](ctx)
			if err != nil {
				return nil, err
			}
			remote, err := graft.Dep[*pypi.RemoteResolver](ctx)
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

			retry := fallback.RetryPolicy{
				Attempts: cfg.Retry.Attempts,
				Interval: cfg.Retry.Interval(),
				Flaky:    cfg.Retry.FlakySet(),
			}

			a := New(
				loader,
				store,
				installer,
				system,
				buildEnv,
				cache,
				remote,
				sourceBuild,
				bestEffort,
				log,
				retry,
				cfg.ManifestPath,
			)
			return &Components{App: a, Logger: log}, nil
		},
	})
}
