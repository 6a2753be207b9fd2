// Package source fetches, unpacks and patches source distributions for
// packages that have to be compiled on the device.
package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Fetcher implements ports.SourceFetcher over the pip CLI. Each package
// gets its own scratch directory under the work dir, recreated per fetch.
type Fetcher struct {
	executor ports.CommandExecutor
	logger   ports.Logger
	workDir  string
	pip      string
}

// NewFetcher creates a fetcher using the pip binary on PATH.
func NewFetcher(executor ports.CommandExecutor, logger ports.Logger, workDir string) *Fetcher {
	return &Fetcher{
		executor: executor,
		logger:   logger,
		workDir:  workDir,
		pip:      "pip",
	}
}

var _ ports.SourceFetcher = (*Fetcher)(nil)

// Fetch downloads the package's source distribution and unpacks it.
func (f *Fetcher) Fetch(ctx context.Context, spec domain.PackageSpec) (*domain.SourceTree, error) {
	root := filepath.Join(f.workDir, spec.Name)
	if err := os.RemoveAll(root); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrFetchFailed, err), "dir", root)
	}
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrFetchFailed, err), "dir", root)
	}

	f.logger.Info("fetching source distribution", "package", spec.Name)
	result, err := f.executor.Run(ctx, ports.Command{
		Name: f.pip,
		Args: []string{
			"download",
			spec.Requirement(),
			"--no-binary", ":all:",
			"--no-deps",
			"--dest", root,
		},
	})
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrFetchFailed, err), "package", spec.Name)
	}
	if result.ExitCode != 0 {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrFetchFailed, "pip download failed"),
			"package", spec.Name),
			"stderr", strings.TrimSpace(result.Stderr))
	}

	sdist, err := findSdist(root)
	if err != nil {
		return nil, err
	}
	if err := extractArchive(sdist, root); err != nil {
		return nil, err
	}

	dir, err := findUnpackedDir(root)
	if err != nil {
		return nil, err
	}

	return &domain.SourceTree{
		Root:      root,
		Dir:       dir,
		SdistPath: sdist,
		Version:   versionFromDir(dir),
	}, nil
}

// findSdist locates the downloaded source archive in the scratch dir.
func findSdist(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "dir", root)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tar.gz") ||
			strings.HasSuffix(name, ".tgz") ||
			strings.HasSuffix(name, ".tar.xz") {
			return filepath.Join(root, name), nil
		}
	}
	return "", zerr.With(errors.Join(domain.ErrFetchFailed,
		zerr.New("no source archive in download directory")), "dir", root)
}

// findUnpackedDir locates the single directory the archive produced.
func findUnpackedDir(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "dir", root)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(root, entry.Name()), nil
		}
	}
	return "", zerr.With(errors.Join(domain.ErrFetchFailed,
		zerr.New("archive produced no directory")), "dir", root)
}

// versionFromDir derives the upstream version from a name-version directory.
func versionFromDir(dir string) string {
	base := filepath.Base(dir)
	if idx := strings.LastIndex(base, "-"); idx >= 0 {
		return base[idx+1:]
	}
	return ""
}
