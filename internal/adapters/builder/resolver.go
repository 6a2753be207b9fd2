package builder

import (
	"context"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// SourceBuildResolver implements the source-build resolution tier: fetch
// the sdist, patch it and compile a wheel on the device.
type SourceBuildResolver struct {
	fetcher ports.SourceFetcher
	patcher ports.SourcePatcher
	builder ports.BuildExecutor
	logger  ports.Logger
}

// NewSourceBuildResolver creates the source-build tier.
func NewSourceBuildResolver(
	fetcher ports.SourceFetcher,
	patcher ports.SourcePatcher,
	builder ports.BuildExecutor,
	logger ports.Logger,
) *SourceBuildResolver {
	return &SourceBuildResolver{
		fetcher: fetcher,
		patcher: patcher,
		builder: builder,
		logger:  logger,
	}
}

var _ ports.ArtifactResolver = (*SourceBuildResolver)(nil)

// Name identifies the tier.
func (r *SourceBuildResolver) Name() string {
	return "source-build"
}

// Resolve runs the fetch, patch and build stages in order.
func (r *SourceBuildResolver) Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error) {
	tree, err := r.fetcher.Fetch(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := r.patcher.Patch(ctx, tree, spec); err != nil {
		return nil, err
	}

	return r.builder.Build(ctx, tree, spec)
}
