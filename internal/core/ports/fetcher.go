package ports

import (
	"context"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// SourceFetcher defines the interface for retrieving and unpacking source
// distributions.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// Fetch downloads the source distribution matching the spec and unpacks
	// it into a fresh work directory.
	Fetch(ctx context.Context, spec domain.PackageSpec) (*domain.SourceTree, error)
}

// SourcePatcher applies the spec's patch profile to a fetched source tree.
type SourcePatcher interface {
	// Patch rewrites the tree in place and repacks the source distribution
	// so the build consumes the patched source. A spec without a patch
	// profile is a no-op. Patching an already-patched tree is a no-op.
	Patch(ctx context.Context, tree *domain.SourceTree, spec domain.PackageSpec) error
}
