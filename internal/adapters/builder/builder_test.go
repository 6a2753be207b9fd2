package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/droidrun/depbuilder/internal/adapters/locator"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
	"github.com/droidrun/depbuilder/internal/core/ports/mocks"
)

var testPlatform = domain.Platform{PythonTag: "cp312", Arch: "aarch64"}

type builderTestMocks struct {
	executor *mocks.MockCommandExecutor
	env      *mocks.MockBuildEnvironment
	logger   *mocks.MockLogger
}

func setupBuilderTest(t *testing.T) (*Builder, builderTestMocks, string) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := builderTestMocks{
		executor: mocks.NewMockCommandExecutor(ctrl),
		env:      mocks.NewMockBuildEnvironment(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	m.env.EXPECT().Snapshot().Return(map[string]string{"MAKEFLAGS": "-j2"}).AnyTimes()
	m.env.EXPECT().JobBudget().Return(2).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Success(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	wheelsDir := t.TempDir()
	index := locator.LoadIndex(filepath.Join(wheelsDir, domain.WheelIndexFileName))
	b := NewBuilder(m.executor, m.env, index, m.logger, wheelsDir, testPlatform)
	return b, m, wheelsDir
}

func testTree(root string) *domain.SourceTree {
	return &domain.SourceTree{
		Root:      root,
		Dir:       filepath.Join(root, "numpy-1.26.4"),
		SdistPath: filepath.Join(root, "numpy-1.26.4.tar.gz"),
		Version:   "1.26.4",
	}
}

func TestBuild_ProducesArtifact(t *testing.T) {
	t.Parallel()
	b, m, wheelsDir := setupBuilderTest(t)
	tree := testTree(t.TempDir())
	spec := domain.PackageSpec{Name: "numpy", BuildEnv: map[string]string{"NPY_NUM_BUILD_JOBS": "1"}}

	m.executor.EXPECT().
		Run(gomock.Any(), ports.Command{
			Name: "pip",
			Args: []string{"wheel", tree.SdistPath, "--no-deps", "--wheel-dir", wheelsDir},
			Env: map[string]string{
				"MAKEFLAGS":          "-j2",
				"NPY_NUM_BUILD_JOBS": "1",
			},
		}).
		DoAndReturn(func(_ context.Context, _ ports.Command) (ports.CommandResult, error) {
			wheel := filepath.Join(wheelsDir, "numpy-1.26.4-cp312-cp312-linux_aarch64.whl")
			require.NoError(t, os.WriteFile(wheel, []byte("wheel-bytes"), 0o644))
			return ports.CommandResult{ExitCode: 0}, nil
		})

	artifact, err := b.Build(context.Background(), tree, spec)
	require.NoError(t, err)

	assert.Equal(t, "numpy", artifact.Name)
	assert.Equal(t, "1.26.4", artifact.Version)
	assert.Equal(t, domain.ProvenanceBuilt, artifact.Provenance)
	assert.NotEmpty(t, artifact.Checksum)

	index := locator.LoadIndex(filepath.Join(wheelsDir, domain.WheelIndexFileName))
	sum, ok := index.Lookup("numpy-1.26.4-cp312-cp312-linux_aarch64.whl")
	require.True(t, ok)
	assert.Equal(t, artifact.Checksum, sum)
}

func TestBuild_NoBuildIsolationFlag(t *testing.T) {
	t.Parallel()
	b, m, wheelsDir := setupBuilderTest(t)
	tree := testTree(t.TempDir())
	spec := domain.PackageSpec{Name: "numpy", NoBuildIsolation: true}

	m.executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.CommandResult, error) {
			assert.Contains(t, cmd.Args, "--no-build-isolation")
			wheel := filepath.Join(wheelsDir, "numpy-1.26.4-cp312-cp312-linux_aarch64.whl")
			require.NoError(t, os.WriteFile(wheel, []byte("wheel-bytes"), 0o644))
			return ports.CommandResult{ExitCode: 0}, nil
		})

	_, err := b.Build(context.Background(), tree, spec)
	require.NoError(t, err)
}

func TestBuild_NonZeroExit(t *testing.T) {
	t.Parallel()
	b, m, _ := setupBuilderTest(t)
	tree := testTree(t.TempDir())

	m.executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(ports.CommandResult{ExitCode: 1, Stderr: "clang: error"}, nil)

	_, err := b.Build(context.Background(), tree, domain.PackageSpec{Name: "numpy"})
	require.ErrorIs(t, err, domain.ErrBuildFailed)
}

func TestBuild_NoWheelProduced(t *testing.T) {
	t.Parallel()
	b, m, _ := setupBuilderTest(t)
	tree := testTree(t.TempDir())

	m.executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(ports.CommandResult{ExitCode: 0}, nil)

	_, err := b.Build(context.Background(), tree, domain.PackageSpec{Name: "numpy"})
	require.ErrorIs(t, err, domain.ErrBuildFailed)
}

func TestBuild_UnknownPostBuildHook(t *testing.T) {
	t.Parallel()
	b, m, wheelsDir := setupBuilderTest(t)
	tree := testTree(t.TempDir())
	spec := domain.PackageSpec{Name: "numpy", PostBuild: "no-such-hook"}

	m.executor.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Command) (ports.CommandResult, error) {
			wheel := filepath.Join(wheelsDir, "numpy-1.26.4-cp312-cp312-linux_aarch64.whl")
			require.NoError(t, os.WriteFile(wheel, []byte("wheel-bytes"), 0o644))
			return ports.CommandResult{ExitCode: 0}, nil
		})

	_, err := b.Build(context.Background(), tree, spec)
	require.ErrorIs(t, err, domain.ErrUnknownPostBuildHook)
}

func TestEnsureFortranShim_LinksFlang(t *testing.T) {
	prefix := t.TempDir()
	binDir := filepath.Join(prefix, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "flang"), []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PREFIX", prefix)

	b, _, _ := setupBuilderTest(t)
	b.ensureFortranShim()

	target, err := os.Readlink(filepath.Join(binDir, "gfortran"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(binDir, "flang"), target)

	// Idempotent once the link exists.
	b.ensureFortranShim()
}

func TestEnsureFortranShim_NoFlang(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "bin"), 0o755))
	t.Setenv("PREFIX", prefix)

	b, _, _ := setupBuilderTest(t)
	b.ensureFortranShim()

	_, err := os.Lstat(filepath.Join(prefix, "bin", "gfortran"))
	assert.True(t, os.IsNotExist(err))
}

func TestTailLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "c\nd", tailLines("a\nb\nc\nd", 2))
	assert.Equal(t, "a\nb", tailLines("a\nb", 5))
}
