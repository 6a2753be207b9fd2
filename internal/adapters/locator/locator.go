// Package locator finds platform-compatible wheels in the local cache.
package locator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Locator implements the cache resolution tier: it scans the wheel
// directories for a compatible wheel satisfying the constraint and returns
// the newest verified one.
type Locator struct {
	dirs     []string
	platform domain.Platform
	index    *ChecksumIndex
	logger   ports.Logger
}

// NewLocator creates a locator over the given directories.
func NewLocator(dirs []string, platform domain.Platform, index *ChecksumIndex, logger ports.Logger) *Locator {
	return &Locator{dirs: dirs, platform: platform, index: index, logger: logger}
}

var _ ports.ArtifactResolver = (*Locator)(nil)

// Name identifies the tier.
func (l *Locator) Name() string {
	return "cache"
}

type candidate struct {
	wheel domain.WheelFile
	path  string
}

// Resolve scans every directory and returns the newest compatible wheel.
// Wheels failing checksum verification are skipped, not fatal.
func (l *Locator) Resolve(ctx context.Context, spec domain.PackageSpec) (*domain.Artifact, error) {
	constraint, err := domain.ParseConstraint(spec.Constraint)
	if err != nil {
		return nil, err
	}

	candidates, err := l.scan(ctx, spec, constraint)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrArtifactNotFound, "no cached wheel"),
			"package", spec.Name),
			"platform", l.platform.Tag())
	}

	// Newest first, then verify down the list.
	sortCandidates(candidates)
	for _, cand := range candidates {
		sum, err := l.verify(cand)
		if err != nil {
			l.logger.Warn("skipping corrupt cached wheel",
				"wheel", cand.wheel.Filename,
				"reason", err.Error(),
			)
			continue
		}
		return &domain.Artifact{
			Name:        spec.Name,
			Version:     cand.wheel.Version,
			PlatformTag: cand.wheel.PlatformTag,
			Path:        cand.path,
			Checksum:    sum,
			Provenance:  domain.ProvenanceCached,
		}, nil
	}

	return nil, zerr.With(
		errors.Join(domain.ErrArtifactNotFound, domain.ErrChecksumMismatch),
		"package", spec.Name,
	)
}

// scan walks the directories concurrently collecting matching wheels.
func (l *Locator) scan(ctx context.Context, spec domain.PackageSpec, constraint domain.Constraint) ([]candidate, error) {
	prefix := domain.WheelNamePrefix(spec.Name)

	var mu sync.Mutex
	var candidates []candidate

	g, _ := errgroup.WithContext(ctx)
	for _, dir := range l.dirs {
		g.Go(func() error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return zerr.With(errors.Join(domain.ErrArtifactNotFound, err), "dir", dir)
			}

			for _, entry := range entries {
				if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
					continue
				}
				wheel, err := domain.ParseWheelFilename(entry.Name())
				if err != nil {
					continue
				}
				if wheel.Name != spec.Name || !wheel.Compatible(l.platform) {
					continue
				}
				if !constraint.Matches(wheel.Version) {
					continue
				}

				mu.Lock()
				candidates = append(candidates, candidate{
					wheel: wheel,
					path:  filepath.Join(dir, entry.Name()),
				})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// verify checks the wheel against the index, recording first-seen wheels.
func (l *Locator) verify(cand candidate) (string, error) {
	sum, err := FileChecksum(cand.path)
	if err != nil {
		return "", err
	}

	if recorded, ok := l.index.Lookup(cand.wheel.Filename); ok {
		if recorded != sum {
			return "", zerr.With(zerr.With(zerr.With(
				zerr.Wrap(domain.ErrChecksumMismatch, "cached wheel changed on disk"),
				"wheel", cand.wheel.Filename),
				"recorded", recorded),
				"actual", sum)
		}
		return sum, nil
	}

	if err := l.index.Record(cand.wheel.Filename, sum); err != nil {
		l.logger.Warn("failed to record wheel checksum", "wheel", cand.wheel.Filename)
	}
	return sum, nil
}

func sortCandidates(candidates []candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return domain.CompareVersions(candidates[i].wheel.Version, candidates[j].wheel.Version) > 0
	})
}
