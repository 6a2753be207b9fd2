package locator

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/logger"
	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// NodeID is the unique identifier for the cache tier Graft node.
const NodeID graft.ID = "adapter.locator"

// IndexNodeID is the unique identifier for the shared checksum index node.
// The cache and remote tiers record into the same index file.
const IndexNodeID graft.ID = "adapter.wheel_checksum_index"

func init() {
	graft.Register(graft.Node[*ChecksumIndex]{
		ID:        IndexNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (*ChecksumIndex, error) {
			cfg, err := graft.Dep[settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return LoadIndex(filepath.Join(cfg.WheelsDir, domain.WheelIndexFileName)), nil
		},
	})

	graft.Register(graft.Node[*Locator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, logger.NodeID, IndexNodeID},
		Run: func(ctx context.Context) (*Locator, error) {
			cfg, err := graft.Dep[settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			index, err := graft.Dep[*ChecksumIndex](ctx)
			if err != nil {
				return nil, err
			}

			platform := domain.DetectPlatform(cfg.PythonVersion)
			return NewLocator([]string{cfg.WheelsDir}, platform, index, log), nil
		},
	})
}
