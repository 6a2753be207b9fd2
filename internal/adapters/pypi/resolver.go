package pypi

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/adapters/locator"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// RemoteResolver implements the remote resolution tier. It asks each index
// in order for a compatible wheel, downloads the first hit into the wheel
// cache and records its checksum so the cache tier trusts it on later runs.
type RemoteResolver struct {
	indexes  []ports.WheelIndex
	platform domain.Platform
	destDir  string
	index    *locator.ChecksumIndex
	logger   ports.Logger
}

// NewRemoteResolver creates the remote tier. Indexes are consulted in the
// given order, so a private mirror should come before the public index.
func NewRemoteResolver(
	indexes []ports.WheelIndex,
	platform domain.Platform,
	destDir string,
	index *locator.ChecksumIndex,
	logger ports.Logger,
) *RemoteResolver {
	return &RemoteResolver{
		indexes:  indexes,
		platform: platform,
		destDir:  destDir,
		index:    index,
		logger:   logger,
	}
}

var _ ports.ArtifactResolver = (*RemoteResolver)(nil)

// Name identifies the tier.
func (r *RemoteResolver) Name() string {
	return "remote"
}

// Resolve tries each index in order and returns the first downloaded wheel.
func (r *RemoteResolver) Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error) {
	var indexErrs []error
	for _, idx := range r.indexes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		wheel, err := idx.FindWheel(ctx, spec, r.platform)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			indexErrs = append(indexErrs, zerr.With(err, "index", idx.Name()))
			continue
		}

		r.logger.Info("found remote wheel",
			"package", spec.Name,
			"version", wheel.Version,
			"index", idx.Name(),
		)

		path, err := idx.Download(ctx, wheel, r.destDir)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			indexErrs = append(indexErrs, zerr.With(err, "index", idx.Name()))
			continue
		}

		return r.artifact(spec, wheel, path), nil
	}

	return nil, zerr.With(
		errors.Join(domain.ErrArtifactNotFound, errors.Join(indexErrs...)),
		"package", spec.Name,
	)
}

// artifact records the downloaded wheel in the checksum index and wraps it.
func (r *RemoteResolver) artifact(spec domain.PackageSpec, wheel *domain.RemoteWheel, path string) *domain.Artifact {
	sum, err := locator.FileChecksum(path)
	if err != nil {
		r.logger.Warn("failed to checksum downloaded wheel", "wheel", wheel.Filename)
	} else if err := r.index.Record(wheel.Filename, sum); err != nil {
		r.logger.Warn("failed to record wheel checksum", "wheel", wheel.Filename)
	}

	platformTag := r.platform.Tag()
	if parsed, err := domain.ParseWheelFilename(wheel.Filename); err == nil {
		platformTag = parsed.PlatformTag
	}

	return &domain.Artifact{
		Name:        spec.Name,
		Version:     wheel.Version,
		PlatformTag: platformTag,
		Path:        path,
		Checksum:    sum,
		Provenance:  domain.ProvenanceRemote,
	}
}
