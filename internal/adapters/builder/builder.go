package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/adapters/locator"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Builder implements ports.BuildExecutor over the pip CLI. Built wheels
// land directly in the wheel cache so later runs find them without
// rebuilding.
type Builder struct {
	executor  ports.CommandExecutor
	env       ports.BuildEnvironment
	index     *locator.ChecksumIndex
	logger    ports.Logger
	wheelsDir string
	platform  domain.Platform
	pip       string
}

// NewBuilder creates a builder using the pip binary on PATH.
func NewBuilder(
	executor ports.CommandExecutor,
	env ports.BuildEnvironment,
	index *locator.ChecksumIndex,
	logger ports.Logger,
	wheelsDir string,
	platform domain.Platform,
) *Builder {
	return &Builder{
		executor:  executor,
		env:       env,
		index:     index,
		logger:    logger,
		wheelsDir: wheelsDir,
		platform:  platform,
		pip:       "pip",
	}
}

var _ ports.BuildExecutor = (*Builder)(nil)

// Build compiles the source tree into a wheel and applies the spec's
// post-build hook to it.
func (b *Builder) Build(ctx context.Context, tree *domain.SourceTree, spec domain.PackageSpec) (*domain.Artifact, error) {
	b.ensureFortranShim()

	args := []string{
		"wheel",
		tree.SdistPath,
		"--no-deps",
		"--wheel-dir", b.wheelsDir,
	}
	if spec.NoBuildIsolation {
		args = append(args, "--no-build-isolation")
	}

	env := b.env.Snapshot()
	for key, value := range spec.BuildEnv {
		env[key] = value
	}

	b.logger.Info("building from source",
		"package", spec.Name,
		"version", tree.Version,
		"jobs", b.env.JobBudget(),
	)

	result, err := b.executor.Run(ctx, ports.Command{
		Name: b.pip,
		Args: args,
		Env:  env,
	})
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrBuildFailed, err), "package", spec.Name)
	}
	if result.ExitCode != 0 {
		return nil, zerr.With(zerr.With(zerr.With(
			zerr.Wrap(domain.ErrBuildFailed, "pip wheel failed"),
			"package", spec.Name),
			"version", tree.Version),
			"stderr", tailLines(result.Stderr, 20))
	}

	artifact, err := b.locateWheel(spec, tree.Version)
	if err != nil {
		return nil, err
	}

	if spec.PostBuild != "" {
		if err := b.runHook(ctx, spec.PostBuild, artifact); err != nil {
			return nil, err
		}
		// The hook rewrote the wheel, so the checksum changes.
		if sum, err := locator.FileChecksum(artifact.Path); err == nil {
			artifact.Checksum = sum
		}
	}

	if artifact.Checksum != "" {
		if err := b.index.Record(wheelFilename(artifact.Path), artifact.Checksum); err != nil {
			b.logger.Warn("failed to record wheel checksum", "package", spec.Name)
		}
	}

	b.logger.Success("built wheel",
		"package", spec.Name,
		"version", artifact.Version,
	)
	return artifact, nil
}

// ensureFortranShim links gfortran to flang on platforms that ship only
// flang. Meson probes for a fortran compiler by the gfortran name and
// scipy-class builds abort without one.
func (b *Builder) ensureFortranShim() {
	prefix := os.Getenv("PREFIX")
	if prefix == "" {
		return
	}
	gfortran := filepath.Join(prefix, "bin", "gfortran")
	if _, err := os.Lstat(gfortran); err == nil {
		return
	}
	flang := filepath.Join(prefix, "bin", "flang")
	if _, err := os.Stat(flang); err != nil {
		return
	}
	if err := os.Symlink(flang, gfortran); err != nil {
		b.logger.Warn("failed to link gfortran to flang", "reason", err.Error())
		return
	}
	b.logger.Info("linked gfortran to flang")
}

// locateWheel finds the wheel the build just produced in the cache dir.
func (b *Builder) locateWheel(spec domain.PackageSpec, version string) (*domain.Artifact, error) {
	entries, err := os.ReadDir(b.wheelsDir)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrBuildFailed, err), "dir", b.wheelsDir)
	}

	prefix := domain.WheelNamePrefix(spec.Name)
	var best *domain.WheelFile
	var bestPath string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		wheel, err := domain.ParseWheelFilename(entry.Name())
		if err != nil {
			continue
		}
		if wheel.Name != spec.Name || !wheel.Compatible(b.platform) {
			continue
		}
		if version != "" && wheel.Version != version {
			continue
		}
		if best == nil || domain.CompareVersions(wheel.Version, best.Version) > 0 {
			w := wheel
			best = &w
			bestPath = filepath.Join(b.wheelsDir, entry.Name())
		}
	}
	if best == nil {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrBuildFailed, "build produced no compatible wheel"),
			"package", spec.Name)
	}

	sum, err := locator.FileChecksum(bestPath)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrBuildFailed, err), "wheel", bestPath)
	}

	return &domain.Artifact{
		Name:        spec.Name,
		Version:     best.Version,
		PlatformTag: best.PlatformTag,
		Path:        bestPath,
		Checksum:    sum,
		Provenance:  domain.ProvenanceBuilt,
	}, nil
}

func wheelFilename(path string) string {
	return filepath.Base(path)
}

// tailLines returns the last n lines of s.
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
