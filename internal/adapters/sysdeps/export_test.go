package sysdeps

import "github.com/droidrun/depbuilder/internal/core/ports"

// NewPkgInstallerForPlatform exposes platform selection for tests.
func NewPkgInstallerForPlatform(executor ports.CommandExecutor, logger ports.Logger, termux bool) *PkgInstaller {
	return newPkgInstaller(executor, logger, termux)
}
