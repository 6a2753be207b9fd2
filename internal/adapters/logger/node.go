package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"

	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[settings.Settings](ctx)
			if err != nil {
				return nil, err
			}

			// Console-only when the state directory cannot hold log files.
			logFile := openAppend(domain.LogPath(cfg.StateDir))
			errFile := openAppend(domain.ErrorLogPath(cfg.StateDir))
			if logFile == nil && errFile == nil {
				return New(), nil
			}
			return NewWithFiles(logFile, errFile), nil
		},
	})
}

func openAppend(path string) io.Writer {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil
	}
	//nolint:gosec // path is inside the trusted state directory
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return nil
	}
	return f
}
