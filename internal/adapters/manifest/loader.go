// Package manifest loads the phase manifest from YAML.
package manifest

import (
	"errors"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// Loader implements ports.ManifestLoader for YAML manifests.
type Loader struct{}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.ManifestLoader = (*Loader)(nil)

type fileManifest struct {
	Phases []filePhase `yaml:"phases"`
}

type filePhase struct {
	Index    int           `yaml:"index"`
	Packages []filePackage `yaml:"packages"`
}

type filePackage struct {
	Name             string            `yaml:"name"`
	Version          string            `yaml:"version"`
	Required         *bool             `yaml:"required"`
	SystemDeps       []string          `yaml:"system_deps"`
	PatchProfile     string            `yaml:"patch_profile"`
	BuildEnv         map[string]string `yaml:"build_env"`
	DependsOn        []string          `yaml:"depends_on"`
	NoBuildIsolation bool              `yaml:"no_build_isolation"`
	PostBuild        string            `yaml:"post_build"`
}

// Load reads, parses and validates the manifest at path. Package names and
// dependency references are normalized before validation so the manifest
// can spell names the way upstream does.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	//nolint:gosec // the manifest path is operator-provided by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrManifestReadFailed, err), "path", path)
	}

	var fm fileManifest
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrManifestParseFailed, err), "path", path)
	}

	phases := make([]domain.Phase, 0, len(fm.Phases))
	for _, fp := range fm.Phases {
		phase := domain.Phase{Index: fp.Index}
		for _, pkg := range fp.Packages {
			spec, err := toSpec(pkg)
			if err != nil {
				return nil, err
			}
			phase.Packages = append(phase.Packages, spec)
		}
		phases = append(phases, phase)
	}

	return domain.NewManifest(phases)
}

func toSpec(pkg filePackage) (domain.PackageSpec, error) {
	// Constraints are validated at load time so a typo fails the run before
	// any package is touched.
	if _, err := domain.ParseConstraint(pkg.Version); err != nil {
		return domain.PackageSpec{}, zerr.With(err, "package", pkg.Name)
	}

	// Packages are required unless the manifest says otherwise.
	required := true
	if pkg.Required != nil {
		required = *pkg.Required
	}

	deps := make([]string, 0, len(pkg.DependsOn))
	for _, dep := range pkg.DependsOn {
		deps = append(deps, domain.NormalizeName(dep))
	}
	if len(deps) == 0 {
		deps = nil
	}

	return domain.PackageSpec{
		Name:             domain.NormalizeName(pkg.Name),
		Constraint:       pkg.Version,
		SystemDeps:       pkg.SystemDeps,
		PatchProfile:     pkg.PatchProfile,
		BuildEnv:         pkg.BuildEnv,
		Required:         required,
		DependsOn:        deps,
		NoBuildIsolation: pkg.NoBuildIsolation,
		PostBuild:        pkg.PostBuild,
	}, nil
}
