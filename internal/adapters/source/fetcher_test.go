package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
	"github.com/droidrun/depbuilder/internal/core/ports/mocks"
)

func setupFetcherTest(t *testing.T) (*Fetcher, *mocks.MockCommandExecutor, string) {
	t.Helper()
	ctrl := gomock.NewController(t)

	executor := mocks.NewMockCommandExecutor(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	workDir := t.TempDir()
	return NewFetcher(executor, logger, workDir), executor, workDir
}

func TestFetch_DownloadsAndUnpacks(t *testing.T) {
	t.Parallel()
	fetcher, executor, workDir := setupFetcherTest(t)
	spec := domain.PackageSpec{Name: "numpy", Constraint: "==1.26.4"}
	root := filepath.Join(workDir, "numpy")

	executor.EXPECT().
		Run(gomock.Any(), ports.Command{
			Name: "pip",
			Args: []string{
				"download", "numpy==1.26.4",
				"--no-binary", ":all:",
				"--no-deps",
				"--dest", root,
			},
		}).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.CommandResult, error) {
			dest := cmd.Args[len(cmd.Args)-1]
			writeTarGz(t, filepath.Join(dest, "numpy-1.26.4.tar.gz"), map[string]string{
				"numpy-1.26.4/setup.py": "from setuptools import setup",
			})
			return ports.CommandResult{ExitCode: 0}, nil
		})

	tree, err := fetcher.Fetch(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, root, tree.Root)
	assert.Equal(t, filepath.Join(root, "numpy-1.26.4"), tree.Dir)
	assert.Equal(t, filepath.Join(root, "numpy-1.26.4.tar.gz"), tree.SdistPath)
	assert.Equal(t, "1.26.4", tree.Version)

	_, err = os.Stat(filepath.Join(tree.Dir, "setup.py"))
	require.NoError(t, err)
}

func TestFetch_DownloadFailure(t *testing.T) {
	t.Parallel()
	fetcher, executor, _ := setupFetcherTest(t)

	executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(ports.CommandResult{ExitCode: 1, Stderr: "no matching distribution"}, nil)

	_, err := fetcher.Fetch(context.Background(), domain.PackageSpec{Name: "numpy"})
	require.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestFetch_NoArchiveDownloaded(t *testing.T) {
	t.Parallel()
	fetcher, executor, _ := setupFetcherTest(t)

	executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(ports.CommandResult{ExitCode: 0}, nil)

	_, err := fetcher.Fetch(context.Background(), domain.PackageSpec{Name: "numpy"})
	require.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestFetch_ReplacesStaleScratchDir(t *testing.T) {
	t.Parallel()
	fetcher, executor, workDir := setupFetcherTest(t)
	root := filepath.Join(workDir, "numpy")

	require.NoError(t, os.MkdirAll(root, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stale.txt"), []byte("old"), 0o644))

	executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.CommandResult, error) {
			writeTarGz(t, filepath.Join(root, "numpy-2.0.0.tar.gz"), map[string]string{
				"numpy-2.0.0/setup.py": "",
			})
			return ports.CommandResult{ExitCode: 0}, nil
		})

	tree, err := fetcher.Fetch(context.Background(), domain.PackageSpec{Name: "numpy"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tree.Root, "stale.txt"))
	assert.True(t, os.IsNotExist(err), "scratch dir is recreated per fetch")
}
