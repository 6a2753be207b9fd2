package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidrun/depbuilder/internal/adapters/manifest"
	"github.com/droidrun/depbuilder/internal/core/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `
phases:
  - index: 1
    packages:
      - name: meson
        version: "==1.4.0"
      - name: ninja
  - index: 2
    packages:
      - name: NumPy
        version: ">=1.26,<2"
        system_deps: [patchelf]
        patch_profile: meson-version
        build_env:
          NPY_NUM_BUILD_JOBS: "2"
        depends_on: [meson, ninja]
        no_build_isolation: true
      - name: grpcio
        required: false
        post_build: elf-rpath
`)

	m, err := manifest.NewLoader().Load(path)
	require.NoError(t, err)

	phases := m.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, 1, phases[0].Index)

	numpy, ok := m.Package("numpy")
	require.True(t, ok, "names are normalized to lowercase")
	assert.Equal(t, ">=1.26,<2", numpy.Constraint)
	assert.Equal(t, []string{"patchelf"}, numpy.SystemDeps)
	assert.Equal(t, "meson-version", numpy.PatchProfile)
	assert.Equal(t, "2", numpy.BuildEnv["NPY_NUM_BUILD_JOBS"])
	assert.Equal(t, []string{"meson", "ninja"}, numpy.DependsOn)
	assert.True(t, numpy.NoBuildIsolation)
	assert.True(t, numpy.Required, "required defaults to true")

	grpcio, ok := m.Package("grpcio")
	require.True(t, ok)
	assert.False(t, grpcio.Required)
	assert.Equal(t, "elf-rpath", grpcio.PostBuild)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := manifest.NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, domain.ErrManifestReadFailed)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "phases: [i am broken")
	_, err := manifest.NewLoader().Load(path)
	require.ErrorIs(t, err, domain.ErrManifestParseFailed)
}

func TestLoad_InvalidConstraint(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `
phases:
  - index: 1
    packages:
      - name: numpy
        version: ">>bogus"
`)
	_, err := manifest.NewLoader().Load(path)
	require.ErrorIs(t, err, domain.ErrInvalidConstraint)
}

func TestLoad_ValidationDelegatedToDomain(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `
phases:
  - index: 1
    packages:
      - name: a
        depends_on: [b]
      - name: b
        depends_on: [a]
`)
	_, err := manifest.NewLoader().Load(path)
	require.ErrorIs(t, err, domain.ErrDependencyCycle)
}
