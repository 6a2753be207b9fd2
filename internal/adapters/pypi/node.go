package pypi

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/locator"
	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// NodeID is the unique identifier for the remote tier Graft node.
const NodeID graft.ID = "adapter.remote_resolver"

func init() {
	graft.Register(graft.Node[*RemoteResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, logger.NodeID, locator.IndexNodeID},
		Run: func(ctx context.Context) (*RemoteResolver, error) {
			cfg, err := graft.Dep[settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			index, err := graft.Dep[*locator.ChecksumIndex](ctx)
			if err != nil {
				return nil, err
			}

			var indexes []ports.WheelIndex
			if cfg.Mirror.Enabled {
				mirror, err := NewMirror(ctx, MirrorConfig{
					Bucket:          cfg.Mirror.Bucket,
					Endpoint:        cfg.Mirror.Endpoint,
					Region:          cfg.Mirror.Region,
					Prefix:          cfg.Mirror.Prefix,
					AccessKeyID:     cfg.Mirror.AccessKeyID,
					SecretAccessKey: cfg.Mirror.SecretAccessKey,
				})
				if err != nil {
					return nil, err
				}
				indexes = append(indexes, mirror)
			}
			indexes = append(indexes, NewIndex())

			platform := domain.DetectPlatform(cfg.PythonVersion)
			return NewRemoteResolver(indexes, platform, cfg.WheelsDir, index, log), nil
		},
	})
}
