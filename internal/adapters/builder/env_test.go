package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsForMemory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		totalMB int64
		want    int
	}{
		{"high memory device", 8000, 4},
		{"exactly at high tier", 3500, 4},
		{"mid tier", 2048, 2},
		{"exactly at mid tier", 2000, 2},
		{"low memory device", 1500, 1},
		{"tiny device", 512, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, jobsForMemory(tt.totalMB))
		})
	}
}

func TestReadMemTotalMB(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "meminfo")
	content := "MemTotal:        3995640 kB\nMemFree:          123456 kB\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	totalMB, err := readMemTotalMB(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3902), totalMB)
}

func TestReadMemTotalMB_MissingLine(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte("MemFree: 1 kB\n"), 0o644))

	_, err := readMemTotalMB(path)
	require.Error(t, err)
}

func TestEnvironment_Snapshot(t *testing.T) {
	t.Setenv("PREFIX", "/data/data/com.termux/files/usr")
	env := NewEnvironment(2)
	snapshot := env.Snapshot()

	assert.Equal(t, "-j2", snapshot["MAKEFLAGS"])
	assert.Equal(t, "-j2", snapshot["NINJAFLAGS"])
	assert.Equal(t, "2", snapshot["MAX_JOBS"])
	assert.Equal(t, "/data/data/com.termux/files/usr/bin/clang", snapshot["CC"])
	assert.Equal(t, "/data/data/com.termux/files/usr/bin/clang++", snapshot["CXX"])
	assert.Equal(t, "/data/data/com.termux/files/usr", snapshot["CMAKE_PREFIX_PATH"])
	assert.Equal(t, "/data/data/com.termux/files/usr/tmp", snapshot["TMPDIR"])
}

func TestEnvironment_NoPrefixOmitsTmpdir(t *testing.T) {
	t.Setenv("PREFIX", "")
	env := NewEnvironment(2)
	snapshot := env.Snapshot()

	assert.Equal(t, "/usr/bin/clang", snapshot["CC"])
	assert.NotContains(t, snapshot, "TMPDIR")
}

func TestEnvironment_ExportIsSorted(t *testing.T) {
	t.Setenv("PREFIX", "/usr/local")
	env := NewEnvironment(4)
	export := env.Export()

	require.Len(t, export, 8)
	assert.IsIncreasing(t, export)
}
