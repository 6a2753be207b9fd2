package domain

import (
	"regexp"
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Platform identifies the interpreter and machine a wheel must target.
type Platform struct {
	// PythonTag is the CPython tag, e.g. "cp312".
	PythonTag string

	// Arch is the normalized machine architecture, e.g. "aarch64" or "x86_64".
	Arch string
}

// DetectPlatform builds the platform for the current machine and the given
// interpreter version ("3.12" -> cp312).
func DetectPlatform(pythonVersion string) Platform {
	return Platform{
		PythonTag: "cp" + strings.ReplaceAll(pythonVersion, ".", ""),
		Arch:      normalizeArch(runtime.GOARCH),
	}
}

func normalizeArch(arch string) string {
	switch arch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	default:
		return arch
	}
}

// Tag returns the platform tag recorded on artifacts, e.g. "cp312-aarch64".
func (p Platform) Tag() string {
	return p.PythonTag + "-" + p.Arch
}

// WheelFile is a parsed wheel filename.
type WheelFile struct {
	Name        string // normalized distribution name
	Version     string
	PythonTag   string
	ABITag      string
	PlatformTag string
	Filename    string
}

// ParseWheelFilename splits a wheel filename into its tag components.
// Build-tag segments are tolerated and ignored.
func ParseWheelFilename(filename string) (WheelFile, error) {
	base := strings.TrimSuffix(filename, ".whl")
	if base == filename {
		return WheelFile{}, zerr.With(zerr.Wrap(ErrInvalidWheelName, "missing .whl suffix"), "filename", filename)
	}

	parts := strings.Split(base, "-")
	if len(parts) < 5 {
		return WheelFile{}, zerr.With(zerr.Wrap(ErrInvalidWheelName, "too few tag segments"), "filename", filename)
	}

	// The last three segments are always pytag-abitag-platform; everything
	// before version may itself contain dashes only via underscores, so the
	// distribution name is parts[0] and an optional build tag sits between
	// version and the python tag.
	n := len(parts)
	return WheelFile{
		Name:        NormalizeName(parts[0]),
		Version:     parts[1],
		PythonTag:   parts[n-3],
		ABITag:      parts[n-2],
		PlatformTag: parts[n-1],
		Filename:    filename,
	}, nil
}

// Compatible reports whether the wheel can run on the platform.
// Pure-Python wheels (py3-none-any) are always compatible; binary wheels
// must match the interpreter tag and carry the machine architecture in
// their platform tag.
func (w WheelFile) Compatible(p Platform) bool {
	if w.PlatformTag == "any" {
		return w.PythonTag == "py3" || strings.HasPrefix(w.PythonTag, "py") ||
			w.PythonTag == p.PythonTag
	}
	if w.PythonTag != p.PythonTag && w.ABITag != "abi3" {
		return false
	}
	return strings.Contains(w.PlatformTag, p.Arch)
}

var nameRunRe = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a distribution name the way package indexes do:
// lowercase with runs of "-", "_" and "." collapsed to a single "-".
func NormalizeName(name string) string {
	return strings.ToLower(nameRunRe.ReplaceAllString(name, "-"))
}

// WheelNamePrefix returns the filename prefix wheels of the distribution
// carry; wheel filenames escape "-" in names as "_".
func WheelNamePrefix(name string) string {
	return strings.ReplaceAll(NormalizeName(name), "-", "_") + "-"
}
