package ports

import "context"

// SystemInstaller defines the interface for installing OS-level build
// prerequisites.
//
//go:generate mockgen -source=sysdeps.go -destination=mocks/mock_sysdeps.go -package=mocks
type SystemInstaller interface {
	// EnsureInstalled installs the named system packages that are missing.
	// Already-installed packages are skipped.
	EnsureInstalled(ctx context.Context, packages []string) error
}
