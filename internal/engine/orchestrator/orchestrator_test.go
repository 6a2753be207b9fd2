package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports/mocks"
	"github.com/droidrun/depbuilder/internal/engine/orchestrator"
)

type orchestratorTestMocks struct {
	state     *mocks.MockStateStore
	resolver  *mocks.MockPackageResolver
	installer *mocks.MockInstaller
	sysdeps   *mocks.MockSystemInstaller
	buildEnv  *mocks.MockBuildEnvironment
	logger    *mocks.MockLogger
}

// setupOrchestratorTest creates the common mocks with quiet defaults.
func setupOrchestratorTest(t *testing.T) orchestratorTestMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := orchestratorTestMocks{
		state:     mocks.NewMockStateStore(ctrl),
		resolver:  mocks.NewMockPackageResolver(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		sysdeps:   mocks.NewMockSystemInstaller(ctrl),
		buildEnv:  mocks.NewMockBuildEnvironment(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}

	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Success(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	m.buildEnv.EXPECT().Snapshot().Return(map[string]string{"CC": "clang"}).AnyTimes()
	m.buildEnv.EXPECT().JobBudget().Return(2).AnyTimes()

	m.state.EXPECT().AppendError(gomock.Any()).AnyTimes()

	return m
}

func (m orchestratorTestMocks) build(t *testing.T, phases []domain.Phase) *orchestrator.Orchestrator {
	t.Helper()
	manifest, err := domain.NewManifest(phases)
	require.NoError(t, err)
	return orchestrator.New(manifest, m.state, m.resolver, m.installer, m.sysdeps, m.buildEnv, m.logger)
}

// notInstalled sets up the pre-install check to report the package missing.
func (m orchestratorTestMocks) notInstalled() {
	m.installer.EXPECT().Installed(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
}

func required(name string, deps ...string) domain.PackageSpec {
	return domain.PackageSpec{Name: name, Required: true, DependsOn: deps}
}

func optional(name string, deps ...string) domain.PackageSpec {
	return domain.PackageSpec{Name: name, DependsOn: deps}
}

func cached(name string) *domain.Artifact {
	return &domain.Artifact{Name: name, Version: "1.0.0", Provenance: domain.ProvenanceCached}
}

func TestRun_SkipsCompletedPhases(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(true)
	m.state.EXPECT().IsPhaseComplete(2).Return(false)
	m.notInstalled()
	m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(cached("numpy"), nil)
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil)
	m.state.EXPECT().MarkPhaseComplete(2, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("meson")}},
		{Index: 2, Packages: []domain.PackageSpec{required("numpy")}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, []int{1}, result.SkippedPhases)
	assert.Equal(t, []int{2}, result.CompletedPhases)
}

func TestRun_ForceRerunsCompletedPhase(t *testing.T) {
	m := setupOrchestratorTest(t)

	// IsPhaseComplete must not even be consulted when forcing.
	m.notInstalled()
	m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(cached("meson"), nil)
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil)
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("meson")}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.CompletedPhases)
}

func TestRun_ResolvesClosureInDependencyOrder(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	m.notInstalled()
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	gomock.InOrder(
		m.resolver.EXPECT().Resolve(gomock.Any(), matchSpec("numpy")).Return(cached("numpy"), nil),
		m.resolver.EXPECT().Resolve(gomock.Any(), matchSpec("scipy")).Return(cached("scipy"), nil),
	)
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{
			required("scipy", "numpy"),
			required("numpy"),
		}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
}

func TestRun_RequiredFailureAbortsRun(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	m.notInstalled()
	m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, domain.ErrMissingArtifact)
	// MarkPhaseComplete must never be called; phase 2 must never start.

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("numpy")}},
		{Index: 2, Packages: []domain.PackageSpec{required("scipy")}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailedRequired, result.Status)
	assert.Equal(t, "numpy", result.FailedPackage)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "numpy", result.Errors[0].Package)
	assert.Empty(t, result.CompletedPhases)
}

func TestRun_OptionalFailureDegradesAndContinues(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	m.notInstalled()
	m.resolver.EXPECT().Resolve(gomock.Any(), matchSpec("pillow")).Return(nil, domain.ErrMissingArtifact)
	m.resolver.EXPECT().Resolve(gomock.Any(), matchSpec("numpy")).Return(cached("numpy"), nil)
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil)
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{optional("pillow"), required("numpy")}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, []string{"pillow"}, result.Degraded)
	assert.True(t, result.IsDegraded())
	assert.Equal(t, []int{1}, result.CompletedPhases)
}

func TestRun_AlreadyInstalledSkipsResolution(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	m.installer.EXPECT().Installed(gomock.Any(), gomock.Any()).Return(true, nil)
	// resolver must never be consulted
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("numpy")}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
}

func TestRun_FallbackArtifactSkipsInstallStep(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	m.notInstalled()
	m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(
		&domain.Artifact{Name: "pillow", Provenance: domain.ProvenanceFallback}, nil)
	// installer.Install must never be called for fallback provenance
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{optional("pillow")}},
	})

	result, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
}

func TestRun_SystemDepsInstalledBeforeResolution(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	gomock.InOrder(
		m.sysdeps.EXPECT().EnsureInstalled(gomock.Any(), []string{"patchelf", "openblas"}).Return(nil),
		m.installer.EXPECT().Installed(gomock.Any(), gomock.Any()).Return(false, nil),
		m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(cached("numpy"), nil),
		m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil),
	)
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(nil)

	spec := required("numpy")
	spec.SystemDeps = []string{"patchelf", "openblas"}
	o := m.build(t, []domain.Phase{{Index: 1, Packages: []domain.PackageSpec{spec}}})

	_, err := o.Run(context.Background(), orchestrator.Options{})
	require.NoError(t, err)
}

func TestRun_SinglePhaseSelection(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(2).Return(false)
	m.notInstalled()
	// Only scipy's closure is touched; numpy is pulled in transitively.
	gomock.InOrder(
		m.resolver.EXPECT().Resolve(gomock.Any(), matchSpec("numpy")).Return(cached("numpy"), nil),
		m.resolver.EXPECT().Resolve(gomock.Any(), matchSpec("scipy")).Return(cached("scipy"), nil),
	)
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.state.EXPECT().MarkPhaseComplete(2, gomock.Any()).Return(nil)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("numpy")}},
		{Index: 2, Packages: []domain.PackageSpec{required("scipy", "numpy")}},
	})

	phase := 2
	result, err := o.Run(context.Background(), orchestrator.Options{Phase: &phase})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, result.CompletedPhases)
}

func TestRun_UnknownPhase(t *testing.T) {
	m := setupOrchestratorTest(t)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("numpy")}},
	})

	phase := 9
	_, err := o.Run(context.Background(), orchestrator.Options{Phase: &phase})
	require.ErrorIs(t, err, domain.ErrUnknownPhase)
}

func TestRun_ContextCancelledAbortsRun(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("numpy")}},
	})

	result, err := o.Run(ctx, orchestrator.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbortedByUser, result.Status)
	assert.Empty(t, result.CompletedPhases)
}

func TestRun_MarkPhaseCompleteFailureSurfaces(t *testing.T) {
	m := setupOrchestratorTest(t)

	m.state.EXPECT().IsPhaseComplete(1).Return(false)
	m.notInstalled()
	m.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(cached("numpy"), nil)
	m.installer.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil)
	m.state.EXPECT().MarkPhaseComplete(1, gomock.Any()).Return(domain.ErrStateWriteFailed)

	o := m.build(t, []domain.Phase{
		{Index: 1, Packages: []domain.PackageSpec{required("numpy")}},
	})

	_, err := o.Run(context.Background(), orchestrator.Options{})
	require.ErrorIs(t, err, domain.ErrStateWriteFailed)
}

// matchSpec matches a PackageSpec by name.
func matchSpec(name string) gomock.Matcher {
	return specMatcher{name: name}
}

type specMatcher struct {
	name string
}

func (m specMatcher) Matches(x any) bool {
	spec, ok := x.(domain.PackageSpec)
	return ok && spec.Name == m.name
}

func (m specMatcher) String() string {
	return "spec named " + m.name
}
