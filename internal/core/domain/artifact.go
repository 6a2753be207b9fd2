package domain

// Provenance records which resolution tier produced an artifact.
type Provenance string

const (
	// ProvenanceCached indicates the artifact was found in a local cache.
	ProvenanceCached Provenance = "cached"
	// ProvenanceRemote indicates a precompiled artifact was downloaded.
	ProvenanceRemote Provenance = "remote"
	// ProvenanceBuilt indicates the artifact was compiled from patched source.
	ProvenanceBuilt Provenance = "built"
	// ProvenanceFallback indicates the best-effort install channel was used.
	// Fallback installs register directly and carry no wheel file.
	ProvenanceFallback Provenance = "fallback"
)

// Artifact is a locatable, installable build output for one
// package/version/platform combination.
type Artifact struct {
	Name        string
	Version     string
	PlatformTag string

	// Path is the wheel location on disk. Empty for fallback installs.
	Path string

	// Checksum is the BLAKE3 hex digest of the wheel, when known.
	Checksum string

	Provenance Provenance
}

// RemoteWheel is a wheel advertised by a remote index.
type RemoteWheel struct {
	Name     string
	Version  string
	Filename string
	URL      string
	Size     int64

	// SHA256 is the digest the index advertises, when it advertises one.
	SHA256 string
}

// SourceTree is a fetched and possibly patched source distribution on disk.
type SourceTree struct {
	// Root is the work directory owning the tree.
	Root string

	// Dir is the unpacked package directory inside Root.
	Dir string

	// SdistPath is the source distribution archive the tree was unpacked
	// from. Rebuilt after patching so the build consumes patched source.
	SdistPath string

	// Version is the upstream version the sdist carries, derived from the
	// unpacked directory name.
	Version string
}
