package state_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/droidrun/depbuilder/internal/adapters/state"
	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports/mocks"
)

func setupStore(t *testing.T) (*state.Store, string) {
	t.Helper()
	dir := t.TempDir()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return state.NewStore(dir, logger), dir
}

func TestStore_MarkAndCheck(t *testing.T) {
	t.Parallel()
	s, _ := setupStore(t)

	assert.False(t, s.IsPhaseComplete(1))

	require.NoError(t, s.MarkPhaseComplete(1, map[string]string{"CC": "clang"}))

	assert.True(t, s.IsPhaseComplete(1))
	assert.False(t, s.IsPhaseComplete(2))
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	s, dir := setupStore(t)

	require.NoError(t, s.MarkPhaseComplete(3, map[string]string{"MAKEFLAGS": "-j2"}))

	logger := mocks.NewMockLogger(gomock.NewController(t))
	reopened := state.NewStore(dir, logger)
	assert.True(t, reopened.IsPhaseComplete(3))

	env, err := reopened.Environment()
	require.NoError(t, err)
	assert.Equal(t, "-j2", env["MAKEFLAGS"])
}

func TestStore_ProgressFileFormat(t *testing.T) {
	t.Parallel()
	s, dir := setupStore(t)

	before := time.Now().Unix()
	require.NoError(t, s.MarkPhaseComplete(2, nil))

	data, err := os.ReadFile(domain.ProgressPath(dir))
	require.NoError(t, err)
	assert.Regexp(t, `^PHASE_2_COMPLETE=\d+\n$`, string(data))

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.GreaterOrEqual(t, records[0].CompletedAt.Unix(), before)
}

func TestStore_EnvFileFormat(t *testing.T) {
	t.Parallel()
	s, dir := setupStore(t)

	require.NoError(t, s.MarkPhaseComplete(1, map[string]string{
		"CC":        "clang",
		"MAKEFLAGS": "-j4",
	}))

	data, err := os.ReadFile(domain.EnvPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "export CC=\"clang\"\nexport MAKEFLAGS=\"-j4\"\n", string(data))
}

func TestStore_CorruptLinesIgnored(t *testing.T) {
	t.Parallel()
	s, dir := setupStore(t)

	content := "PHASE_1_COMPLETE=1716212345\ngarbage\nPHASE_x_COMPLETE=9\nPHASE_2_COMPLETE=not-a-number\n"
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(domain.ProgressPath(dir), []byte(content), 0o644))

	assert.True(t, s.IsPhaseComplete(1))
	assert.False(t, s.IsPhaseComplete(2))

	records, err := s.Records()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_MarkIsIdempotent(t *testing.T) {
	t.Parallel()
	s, _ := setupStore(t)

	require.NoError(t, s.MarkPhaseComplete(1, nil))
	require.NoError(t, s.MarkPhaseComplete(1, nil))

	records, err := s.Records()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_Reset(t *testing.T) {
	t.Parallel()
	s, _ := setupStore(t)

	require.NoError(t, s.MarkPhaseComplete(1, nil))
	require.NoError(t, s.MarkPhaseComplete(2, nil))

	require.NoError(t, s.Reset(1))

	assert.False(t, s.IsPhaseComplete(1))
	assert.True(t, s.IsPhaseComplete(2))
}

func TestStore_ResetAll(t *testing.T) {
	t.Parallel()
	s, dir := setupStore(t)

	require.NoError(t, s.MarkPhaseComplete(1, map[string]string{"CC": "clang"}))
	require.NoError(t, s.ResetAll())

	assert.False(t, s.IsPhaseComplete(1))
	_, err := os.Stat(domain.EnvPath(dir))
	assert.True(t, os.IsNotExist(err))

	// Resetting an already-clean store is fine.
	require.NoError(t, s.ResetAll())
}

func TestStore_RecordsOrderedWithEnvOnLatest(t *testing.T) {
	t.Parallel()
	s, _ := setupStore(t)

	require.NoError(t, s.MarkPhaseComplete(2, map[string]string{"A": "1"}))
	require.NoError(t, s.MarkPhaseComplete(1, map[string]string{"A": "2"}))

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].PhaseIndex)
	assert.Equal(t, 2, records[1].PhaseIndex)
}

func TestStore_AppendError(t *testing.T) {
	t.Parallel()
	s, dir := setupStore(t)

	s.AppendError(domain.ErrorRecord{
		Package:   "grpcio",
		Stage:     domain.StageBuild,
		Message:   "build failed",
		Timestamp: time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC),
	})
	s.AppendError(domain.ErrorRecord{
		Package:   "pillow",
		Stage:     domain.StageFetch,
		Message:   "fetch failed",
		Timestamp: time.Date(2026, 5, 20, 12, 1, 0, 0, time.UTC),
	})

	data, err := os.ReadFile(filepath.Join(dir, "errors.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package=grpcio stage=build")
	assert.Contains(t, string(data), "package=pillow stage=fetch")
}
