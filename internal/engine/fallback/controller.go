// Package fallback walks the resolution tiers for a package in order and
// stops at the first tier that produces an artifact.
package fallback

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// AllowFunc decides whether the best-effort install channel may be used for
// a package. The channel installs whatever the package index serves, so it
// is reserved for optional leaf packages.
type AllowFunc func(spec domain.PackageSpec) bool

// Controller implements ports.PackageResolver over an ordered tier list.
type Controller struct {
	tiers    []ports.ArtifactResolver
	fallback ports.ArtifactResolver
	allow    AllowFunc
	logger   ports.Logger
}

// NewController creates a controller. fallbackTier may be nil to disable
// the best-effort channel entirely.
func NewController(
	tiers []ports.ArtifactResolver,
	fallbackTier ports.ArtifactResolver,
	allow AllowFunc,
	logger ports.Logger,
) *Controller {
	if allow == nil {
		allow = func(domain.PackageSpec) bool { return false }
	}
	return &Controller{
		tiers:    tiers,
		fallback: fallbackTier,
		allow:    allow,
		logger:   logger,
	}
}

// Resolve consults each tier in order and returns the first artifact found.
// Tier failures are collected; when every tier is exhausted the joined
// failures are returned wrapping domain.ErrMissingArtifact so the caller
// can tell exhaustion apart from infrastructure errors.
func (c *Controller) Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error) {
	var tierErrs []error

	for _, tier := range c.ordered(spec) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		artifact, err := tier.Resolve(ctx, spec)
		if err == nil {
			c.logger.Info("package resolved",
				"package", spec.Name,
				"tier", tier.Name(),
				"version", artifact.Version,
			)
			return artifact, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		c.logger.Warn("tier exhausted",
			"package", spec.Name,
			"tier", tier.Name(),
			"reason", err.Error(),
		)
		tierErrs = append(tierErrs, zerr.With(err, "tier", tier.Name()))
	}

	return nil, zerr.With(
		errors.Join(domain.ErrMissingArtifact, errors.Join(tierErrs...)),
		"package", spec.Name,
	)
}

func (c *Controller) ordered(spec domain.PackageSpec) []ports.ArtifactResolver {
	if c.fallback == nil || !c.allow(spec) {
		return c.tiers
	}
	return append(append([]ports.ArtifactResolver{}, c.tiers...), c.fallback)
}
