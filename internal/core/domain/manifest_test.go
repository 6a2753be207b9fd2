package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

func pkg(name string, deps ...string) domain.PackageSpec {
	return domain.PackageSpec{Name: name, Required: true, DependsOn: deps}
}

func names(specs []domain.PackageSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

func TestNewManifest_Validation(t *testing.T) {
	t.Parallel()

	t.Run("no phases", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewManifest(nil)
		require.ErrorIs(t, err, domain.ErrNoPhases)
	})

	t.Run("duplicate phase index", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewManifest([]domain.Phase{
			{Index: 1, Packages: []domain.PackageSpec{pkg("a")}},
			{Index: 1, Packages: []domain.PackageSpec{pkg("b")}},
		})
		require.ErrorIs(t, err, domain.ErrDuplicatePhase)
	})

	t.Run("duplicate package", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewManifest([]domain.Phase{
			{Index: 1, Packages: []domain.PackageSpec{pkg("a"), pkg("a")}},
		})
		require.ErrorIs(t, err, domain.ErrDuplicatePackage)
	})

	t.Run("unknown dependency", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewManifest([]domain.Phase{
			{Index: 1, Packages: []domain.PackageSpec{pkg("a", "ghost")}},
		})
		require.ErrorIs(t, err, domain.ErrUnknownDependency)
	})

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewManifest([]domain.Phase{
			{Index: 1, Packages: []domain.PackageSpec{
				pkg("a", "b"),
				pkg("b", "a"),
			}},
		})
		require.ErrorIs(t, err, domain.ErrDependencyCycle)
	})
}

func TestManifest_Closure_TopologicalOrder(t *testing.T) {
	t.Parallel()

	m, err := domain.NewManifest([]domain.Phase{
		{Index: 0, Packages: []domain.PackageSpec{pkg("meson"), pkg("ninja")}},
		{Index: 1, Packages: []domain.PackageSpec{
			pkg("scipy", "numpy"),
			pkg("numpy", "meson"),
		}},
	})
	require.NoError(t, err)

	phase := m.Phases()[1]
	closure, err := m.Closure(phase)
	require.NoError(t, err)

	// meson is pulled in transitively from phase 0; numpy precedes scipy.
	assert.Equal(t, []string{"meson", "numpy", "scipy"}, names(closure))
}

func TestManifest_Closure_Deterministic(t *testing.T) {
	t.Parallel()

	phases := []domain.Phase{
		{Index: 0, Packages: []domain.PackageSpec{
			pkg("c"), pkg("a"), pkg("b"), pkg("d", "a", "c"),
		}},
	}
	m, err := domain.NewManifest(phases)
	require.NoError(t, err)

	first, err := m.Closure(m.Phases()[0])
	require.NoError(t, err)

	for range 20 {
		again, err := m.Closure(m.Phases()[0])
		require.NoError(t, err)
		assert.Equal(t, names(first), names(again))
	}

	// Independent packages keep manifest declaration order.
	assert.Equal(t, []string{"c", "a", "b", "d"}, names(first))
}

func TestManifest_HasDependents(t *testing.T) {
	t.Parallel()

	m, err := domain.NewManifest([]domain.Phase{
		{Index: 0, Packages: []domain.PackageSpec{pkg("base"), pkg("leaf", "base")}},
	})
	require.NoError(t, err)

	assert.True(t, m.HasDependents("base"))
	assert.False(t, m.HasDependents("leaf"))
}
