package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidrun/depbuilder/internal/adapters/settings"
	"github.com/droidrun/depbuilder/internal/core/domain"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	s, err := settings.Load(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)

	assert.Equal(t, "3.12", s.PythonVersion)
	assert.Equal(t, 2, s.Retry.Attempts)
	assert.False(t, s.Mirror.Enabled)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
python_version = "3.11"
jobs = 3

[retry]
attempts = 4
interval_seconds = 5
flaky = ["grpcio", "Pydantic-Core"]

[mirror]
enabled = true
bucket = "wheels"
endpoint = "https://account.r2.cloudflarestorage.com"
access_key_id = "key"
secret_access_key = "secret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := settings.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "3.11", s.PythonVersion)
	assert.Equal(t, 3, s.Jobs)
	assert.Equal(t, 4, s.Retry.Attempts)
	assert.Equal(t, 5*time.Second, s.Retry.Interval())
	assert.True(t, s.Mirror.Enabled)
	assert.Equal(t, "wheels", s.Mirror.Bucket)

	// Flaky names are normalized for lookups.
	flaky := s.Retry.FlakySet()
	assert.True(t, flaky["grpcio"])
	assert.True(t, flaky["pydantic-core"])
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := settings.Load(path)
	require.ErrorIs(t, err, domain.ErrSettingsParseFailed)
}
