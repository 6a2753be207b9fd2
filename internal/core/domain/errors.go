package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest file")

	// ErrManifestParseFailed is returned when the manifest file cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest file")

	// ErrNoPhases is returned when a manifest declares no phases.
	ErrNoPhases = zerr.New("manifest declares no phases")

	// ErrDuplicatePhase is returned when two phases share the same index.
	ErrDuplicatePhase = zerr.New("duplicate phase index")

	// ErrDuplicatePackage is returned when two packages share the same name.
	ErrDuplicatePackage = zerr.New("duplicate package name")

	// ErrUnknownDependency is returned when a package depends on a name that
	// is not declared anywhere in the manifest.
	ErrUnknownDependency = zerr.New("unknown dependency")

	// ErrDependencyCycle is returned when package dependencies form a cycle.
	ErrDependencyCycle = zerr.New("dependency cycle detected")

	// ErrUnknownPhase is returned when a phase index is not declared in the manifest.
	ErrUnknownPhase = zerr.New("unknown phase index")

	// ErrInvalidConstraint is returned when a version constraint cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid version constraint")

	// ErrInvalidWheelName is returned when a wheel filename does not follow
	// the name-version-pytag-abitag-platform convention.
	ErrInvalidWheelName = zerr.New("invalid wheel filename")

	// ErrFetchFailed is returned when a source distribution cannot be retrieved.
	ErrFetchFailed = zerr.New("failed to fetch source distribution")

	// ErrPatchFailed is returned when applying a patch profile fails.
	ErrPatchFailed = zerr.New("failed to apply patch profile")

	// ErrPatchTargetMissing is returned when the file a patch profile expects
	// to modify does not exist in the source tree.
	ErrPatchTargetMissing = zerr.New("patch target not found in source tree")

	// ErrUnknownPatchProfile is returned when a manifest names a patch profile
	// that is not registered.
	ErrUnknownPatchProfile = zerr.New("unknown patch profile")

	// ErrUnknownPostBuildHook is returned when a manifest names a post-build
	// hook that is not registered.
	ErrUnknownPostBuildHook = zerr.New("unknown post-build hook")

	// ErrBuildFailed is returned when the build toolchain exits non-zero or
	// produces no artifact.
	ErrBuildFailed = zerr.New("build failed")

	// ErrInstallFailed is returned when an artifact was produced but could not
	// be registered into the runtime environment.
	ErrInstallFailed = zerr.New("install failed")

	// ErrMissingArtifact is returned when every resolution tier has been
	// exhausted without producing an artifact.
	ErrMissingArtifact = zerr.New("no resolution tier produced an artifact")

	// ErrArtifactNotFound is returned by a single tier that could not locate
	// a usable artifact. It is non-fatal to the fallback controller.
	ErrArtifactNotFound = zerr.New("artifact not found")

	// ErrChecksumMismatch is returned when a cached artifact does not match
	// its recorded checksum.
	ErrChecksumMismatch = zerr.New("artifact checksum mismatch")

	// ErrStateReadFailed is returned when the progress or environment file
	// cannot be read.
	ErrStateReadFailed = zerr.New("failed to read state file")

	// ErrStateWriteFailed is returned when the progress or environment file
	// cannot be written.
	ErrStateWriteFailed = zerr.New("failed to write state file")

	// ErrSystemDepsFailed is returned when OS-level prerequisites could not be
	// installed.
	ErrSystemDepsFailed = zerr.New("failed to install system prerequisites")

	// ErrCommandStartFailed is returned when a toolchain command cannot be spawned.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrRunFailed is returned by the application when a required package
	// failed and the run was aborted.
	ErrRunFailed = zerr.New("run aborted: a required package failed")

	// ErrSettingsParseFailed is returned when the settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")
)
