package ports

import (
	"context"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// BuildExecutor defines the interface for compiling a source tree into an
// installable artifact.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type BuildExecutor interface {
	// Build compiles the tree and returns the resulting artifact with its
	// checksum recorded. The spec's post-build hook, when set, has already
	// been applied to the returned artifact.
	Build(ctx context.Context, tree *domain.SourceTree, spec domain.PackageSpec) (*domain.Artifact, error)
}

// BuildEnvironment derives the toolchain environment for the current machine.
type BuildEnvironment interface {
	// Snapshot returns the derived variables as a map.
	Snapshot() map[string]string

	// Export returns the derived variables as KEY=VALUE pairs for exec.
	Export() []string

	// JobBudget returns the parallel job count derived from available memory.
	JobBudget() int
}
