// Package domain contains the core domain models for the phased build pipeline.
package domain

// PackageSpec describes one package declared in the manifest.
// Specs are immutable once loaded.
type PackageSpec struct {
	// Name is the normalized package name, unique within the manifest.
	Name string

	// Constraint is the version constraint, e.g. ">=1.26,<2". Empty means any.
	Constraint string

	// SystemDeps names OS-level packages that must exist before this package
	// can be fetched or built (compilers, headers, build tools).
	SystemDeps []string

	// PatchProfile names the source fixup applied before building, or is
	// empty when the upstream source builds unmodified.
	PatchProfile string

	// BuildEnv holds environment variable overrides applied to the build.
	BuildEnv map[string]string

	// Required marks packages whose failure aborts the entire run.
	Required bool

	// DependsOn lists package names that must be resolved before this one,
	// even when they are declared in the same phase.
	DependsOn []string

	// NoBuildIsolation disables the build frontend's isolated environment so
	// the build can see already-installed build tools.
	NoBuildIsolation bool

	// PostBuild names the artifact rewrite hook applied after a successful
	// build, or is empty when none is needed.
	PostBuild string
}

// Requirement returns the pip-style requirement string for the spec.
func (s PackageSpec) Requirement() string {
	if s.Constraint == "" {
		return s.Name
	}
	return s.Name + s.Constraint
}

// Phase is an ordered group of packages and the unit of resumability.
// A phase implicitly depends on every phase with a lower index.
type Phase struct {
	Index    int
	Packages []PackageSpec
}
