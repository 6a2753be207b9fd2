// Package pip registers wheels into the Python environment through pip.
package pip

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Installer implements ports.Installer over the pip CLI. Wheel installs are
// pinned to the local cache directory with --no-index so pip can never
// silently substitute an incompatible build from the public index.
type Installer struct {
	executor  ports.CommandExecutor
	logger    ports.Logger
	wheelsDir string
	pip       string
}

// NewInstaller creates an installer using the pip binary on PATH.
func NewInstaller(executor ports.CommandExecutor, logger ports.Logger, wheelsDir string) *Installer {
	return &Installer{
		executor:  executor,
		logger:    logger,
		wheelsDir: wheelsDir,
		pip:       "pip",
	}
}

var _ ports.Installer = (*Installer)(nil)

// Install registers the artifact's wheel.
func (i *Installer) Install(ctx context.Context, artifact *domain.Artifact) error {
	result, err := i.executor.Run(ctx, ports.Command{
		Name: i.pip,
		Args: []string{
			"install",
			"--no-deps",
			"--find-links", i.wheelsDir,
			"--no-index",
			artifact.Path,
		},
	})
	if err != nil {
		return zerr.With(errors.Join(domain.ErrInstallFailed, err), "package", artifact.Name)
	}
	if result.ExitCode != 0 {
		return zerr.With(zerr.With(zerr.With(
			zerr.Wrap(domain.ErrInstallFailed, "pip install failed"),
			"package", artifact.Name),
			"wheel", artifact.Path),
			"stderr", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Installed reports whether a distribution satisfying the spec is already
// registered. A registered version outside the constraint counts as not
// installed so the pipeline can replace it.
func (i *Installer) Installed(ctx context.Context, spec domain.PackageSpec) (bool, error) {
	result, err := i.executor.Run(ctx, ports.Command{
		Name: i.pip,
		Args: []string{"show", spec.Name},
	})
	if err != nil {
		return false, err
	}
	if result.ExitCode != 0 {
		return false, nil
	}

	version := showVersion(result.Stdout)
	if version == "" {
		return false, nil
	}

	constraint, err := domain.ParseConstraint(spec.Constraint)
	if err != nil {
		return false, err
	}
	return constraint.Matches(version), nil
}

// showVersion extracts the Version field from pip show output.
func showVersion(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, found := strings.CutPrefix(line, "Version:"); found {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
