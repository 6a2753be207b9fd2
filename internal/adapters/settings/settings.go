// Package settings loads tool configuration from the state directory.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
)

// Settings holds everything configurable about a run. Every field has a
// default so a missing settings file yields a working configuration.
type Settings struct {
	// StateDir holds progress, logs and the settings file itself.
	StateDir string `toml:"state_dir"`

	// WheelsDir is the local wheel cache searched by the cache tier.
	WheelsDir string `toml:"wheels_dir"`

	// ManifestPath is the phase manifest location.
	ManifestPath string `toml:"manifest"`

	// PythonVersion selects the interpreter tag wheels must target.
	PythonVersion string `toml:"python_version"`

	// Jobs overrides the memory-derived parallel job budget when positive.
	Jobs int `toml:"jobs"`

	Retry  Retry  `toml:"retry"`
	Mirror Mirror `toml:"mirror"`
}

// Retry configures the build retry policy for flaky packages.
type Retry struct {
	// Attempts is the total number of build tries, including the first.
	Attempts int `toml:"attempts"`

	// IntervalSeconds is the pause between tries.
	IntervalSeconds int `toml:"interval_seconds"`

	// Flaky names packages whose builds may fail transiently.
	Flaky []string `toml:"flaky"`
}

// Interval returns the retry pause as a duration.
func (r Retry) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// FlakySet returns the flaky package names as a lookup set.
func (r Retry) FlakySet() map[string]bool {
	set := make(map[string]bool, len(r.Flaky))
	for _, name := range r.Flaky {
		set[domain.NormalizeName(name)] = true
	}
	return set
}

// Mirror configures the S3-compatible prebuilt wheel mirror. The mirror is
// consulted by the remote tier before the public package index.
type Mirror struct {
	Enabled  bool   `toml:"enabled"`
	Bucket   string `toml:"bucket"`
	Endpoint string `toml:"endpoint"`
	Region   string `toml:"region"`
	Prefix   string `toml:"prefix"`

	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// Default returns the built-in configuration.
func Default() Settings {
	return Settings{
		StateDir:      domain.DefaultStateDir(),
		WheelsDir:     domain.DefaultWheelsDir(),
		ManifestPath:  domain.ManifestFileName,
		PythonVersion: "3.12",
		Retry: Retry{
			Attempts:        2,
			IntervalSeconds: 10,
			Flaky:           []string{"grpcio"},
		},
		Mirror: Mirror{
			Region: "auto",
		},
	}
}

// Load reads the settings file at path over the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, zerr.With(
			errors.Join(domain.ErrSettingsParseFailed, err),
			"path", path,
		)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, zerr.With(
			errors.Join(domain.ErrSettingsParseFailed, err),
			"path", path,
		)
	}
	return s, nil
}
