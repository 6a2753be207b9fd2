package ports

import "github.com/droidrun/depbuilder/internal/core/domain"

// ManifestLoader defines the interface for loading and validating the
// phase manifest.
//
//go:generate mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path and returns it validated.
	Load(path string) (*domain.Manifest, error)
}
