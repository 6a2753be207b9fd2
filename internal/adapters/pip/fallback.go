package pip

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// FallbackResolver is the last resolution tier: a plain pip install from
// the public index, accepting whatever pip can make work. The artifact it
// returns is already installed and carries no wheel file.
type FallbackResolver struct {
	executor ports.CommandExecutor
	logger   ports.Logger
	pip      string
}

// NewFallbackResolver creates the best-effort install tier.
func NewFallbackResolver(executor ports.CommandExecutor, logger ports.Logger) *FallbackResolver {
	return &FallbackResolver{executor: executor, logger: logger, pip: "pip"}
}

var _ ports.ArtifactResolver = (*FallbackResolver)(nil)

// Name identifies the tier.
func (f *FallbackResolver) Name() string {
	return "best-effort"
}

// Resolve installs the requirement directly.
func (f *FallbackResolver) Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error) {
	f.logger.Warn("falling back to a best-effort install", "package", spec.Name)

	result, err := f.executor.Run(ctx, ports.Command{
		Name: f.pip,
		Args: []string{"install", spec.Requirement()},
	})
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrArtifactNotFound, err), "package", spec.Name)
	}
	if result.ExitCode != 0 {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrArtifactNotFound, "pip install failed"),
			"package", spec.Name),
			"stderr", strings.TrimSpace(result.Stderr))
	}

	return &domain.Artifact{
		Name:       spec.Name,
		Version:    f.installedVersion(ctx, spec.Name),
		Provenance: domain.ProvenanceFallback,
	}, nil
}

// installedVersion asks pip what it just installed. Best effort only.
func (f *FallbackResolver) installedVersion(ctx context.Context, name string) string {
	result, err := f.executor.Run(ctx, ports.Command{
		Name: f.pip,
		Args: []string{"show", name},
	})
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	return showVersion(result.Stdout)
}
