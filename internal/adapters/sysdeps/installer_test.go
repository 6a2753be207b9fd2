package sysdeps_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/droidrun/depbuilder/internal/adapters/sysdeps"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
	"github.com/droidrun/depbuilder/internal/core/ports/mocks"
)

func setupSysdeps(t *testing.T, termux bool) (*sysdeps.PkgInstaller, *mocks.MockCommandExecutor) {
	t.Helper()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockCommandExecutor(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return sysdeps.NewPkgInstallerForPlatform(executor, logger, termux), executor
}

func listInstalledReturning(stdout string) ports.CommandResult {
	return ports.CommandResult{ExitCode: 0, Stdout: stdout}
}

func TestEnsureInstalled_InstallsOnlyMissing(t *testing.T) {
	t.Parallel()
	p, executor := setupSysdeps(t, true)

	gomock.InOrder(
		executor.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "pkg",
			Args: []string{"list-installed"},
		}).Return(listInstalledReturning("clang/stable,now 17.0.6 aarch64 [installed]\n"), nil),
		executor.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "pkg",
			Args: []string{"install", "-y", "patchelf"},
		}).Return(ports.CommandResult{ExitCode: 0}, nil),
	)

	err := p.EnsureInstalled(context.Background(), []string{"clang", "patchelf"})
	require.NoError(t, err)
}

func TestEnsureInstalled_CachesAcrossCalls(t *testing.T) {
	t.Parallel()
	p, executor := setupSysdeps(t, true)

	gomock.InOrder(
		executor.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "pkg",
			Args: []string{"list-installed"},
		}).Return(listInstalledReturning("ninja/stable,now 1.12 aarch64 [installed]\n"), nil),
		executor.EXPECT().Run(gomock.Any(), ports.Command{
			Name: "pkg",
			Args: []string{"install", "-y", "patchelf"},
		}).Return(ports.CommandResult{ExitCode: 0}, nil),
	)

	require.NoError(t, p.EnsureInstalled(context.Background(), []string{"patchelf"}))
	// Second call is served entirely from the cache.
	require.NoError(t, p.EnsureInstalled(context.Background(), []string{"patchelf", "ninja"}))
}

func TestEnsureInstalled_InstallFailure(t *testing.T) {
	t.Parallel()
	p, executor := setupSysdeps(t, true)

	gomock.InOrder(
		executor.EXPECT().Run(gomock.Any(), gomock.Any()).Return(listInstalledReturning(""), nil),
		executor.EXPECT().Run(gomock.Any(), gomock.Any()).Return(ports.CommandResult{
			ExitCode: 100,
			Stderr:   "E: Unable to locate package libfoo",
		}, nil),
	)

	err := p.EnsureInstalled(context.Background(), []string{"libfoo"})
	require.ErrorIs(t, err, domain.ErrSystemDepsFailed)
}

func TestEnsureInstalled_OutsideTermuxIsNoop(t *testing.T) {
	t.Parallel()
	p, _ := setupSysdeps(t, false)

	// No executor expectations: nothing may be run off-platform.
	require.NoError(t, p.EnsureInstalled(context.Background(), []string{"clang"}))
	require.NoError(t, p.EnsureInstalled(context.Background(), []string{"patchelf"}))
}

func TestEnsureInstalled_EmptyList(t *testing.T) {
	t.Parallel()
	p, _ := setupSysdeps(t, true)

	require.NoError(t, p.EnsureInstalled(context.Background(), nil))
}
