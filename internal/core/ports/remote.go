package ports

import (
	"context"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// WheelIndex defines the interface for querying a remote wheel index and
// downloading from it.
//
//go:generate mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks
type WheelIndex interface {
	// Name identifies the index in logs.
	Name() string

	// FindWheel returns the best platform-compatible wheel satisfying the
	// spec, or an error wrapping domain.ErrArtifactNotFound when the index
	// has none.
	FindWheel(ctx context.Context, spec domain.PackageSpec, platform domain.Platform) (*domain.RemoteWheel, error)

	// Download fetches the wheel into destDir and returns its path.
	Download(ctx context.Context, wheel *domain.RemoteWheel, destDir string) (string, error)
}
