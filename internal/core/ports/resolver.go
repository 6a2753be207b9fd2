package ports

import (
	"context"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// ArtifactResolver is one resolution tier. Tiers are consulted in a fixed
// order; a tier that cannot serve the package returns an error wrapping
// domain.ErrArtifactNotFound, which is non-fatal to the caller.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ArtifactResolver interface {
	// Name identifies the tier in logs and error records.
	Name() string

	// Resolve produces an artifact for the package or reports why it cannot.
	Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error)
}

// PackageResolver resolves a package through every available channel.
// The orchestrator depends on this, not on individual tiers.
type PackageResolver interface {
	// Resolve walks the tiers in order and returns the first artifact found.
	// When every tier is exhausted it returns an error wrapping
	// domain.ErrMissingArtifact that carries each tier's failure.
	Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error)
}
