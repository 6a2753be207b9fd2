package ports

import (
	"context"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// Installer defines the interface for registering artifacts into the
// runtime environment.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install registers the artifact. Installing an already-installed
	// artifact is a no-op, not an error.
	Install(ctx context.Context, artifact *domain.Artifact) error

	// Installed reports whether a distribution satisfying the spec is
	// already registered.
	Installed(ctx context.Context, spec domain.PackageSpec) (bool, error)
}
