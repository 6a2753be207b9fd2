package domain

import (
	"os"
	"path/filepath"
)

const (
	// StateDirName is the name of the state directory under $HOME.
	StateDirName = ".depbuilder"

	// ProgressFileName is the name of the phase progress file.
	ProgressFileName = "progress"

	// EnvFileName is the name of the environment snapshot file.
	EnvFileName = "env.sh"

	// LogFileName is the name of the full install log.
	LogFileName = "install.log"

	// ErrorLogFileName is the name of the error-only log.
	ErrorLogFileName = "errors.log"

	// SettingsFileName is the name of the tool settings file.
	SettingsFileName = "settings.toml"

	// WheelsDirName is the name of the local wheel cache directory under $HOME.
	WheelsDirName = "wheels"

	// WheelIndexFileName is the name of the checksum index inside the wheel cache.
	WheelIndexFileName = "index.json"

	// ManifestFileName is the default manifest filename.
	ManifestFileName = "depbuilder.yaml"

	// WorkDirName is the name of the scratch directory for source builds.
	WorkDirName = "work"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStateDir returns the state directory under the user's home.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, StateDirName)
}

// DefaultWheelsDir returns the wheel cache directory under the user's home.
func DefaultWheelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, WheelsDirName)
}

// ProgressPath returns the progress file path inside a state directory.
func ProgressPath(stateDir string) string {
	return filepath.Join(stateDir, ProgressFileName)
}

// EnvPath returns the environment snapshot path inside a state directory.
func EnvPath(stateDir string) string {
	return filepath.Join(stateDir, EnvFileName)
}

// LogPath returns the install log path inside a state directory.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, LogFileName)
}

// ErrorLogPath returns the error log path inside a state directory.
func ErrorLogPath(stateDir string) string {
	return filepath.Join(stateDir, ErrorLogFileName)
}

// SettingsPath returns the settings file path inside a state directory.
func SettingsPath(stateDir string) string {
	return filepath.Join(stateDir, SettingsFileName)
}

// WorkPath returns the scratch directory path inside a state directory.
func WorkPath(stateDir string) string {
	return filepath.Join(stateDir, WorkDirName)
}
