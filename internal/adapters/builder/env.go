// Package builder compiles wheels from patched source trees on the device.
package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/ports"
)

const memInfoPath = "/proc/meminfo"

// Job budget tiers by total memory. Parallel native compiles are the main
// OOM source on phones, so the budget is deliberately conservative.
const (
	memHighMB = 3500
	memMidMB  = 2000

	jobsHigh = 4
	jobsMid  = 2
	jobsLow  = 1
)

// Environment implements ports.BuildEnvironment. It pins the compiler to
// the platform prefix and caps build parallelism by available memory.
type Environment struct {
	jobs      int
	prefix    string
	hasPrefix bool
}

// NewEnvironment creates a build environment. A jobs value of zero or less
// means detect from total memory.
func NewEnvironment(jobs int) *Environment {
	if jobs <= 0 {
		jobs = detectJobs()
	}
	prefix := os.Getenv("PREFIX")
	hasPrefix := prefix != ""
	if prefix == "" {
		prefix = "/usr"
	}
	return &Environment{jobs: jobs, prefix: prefix, hasPrefix: hasPrefix}
}

var _ ports.BuildEnvironment = (*Environment)(nil)

// JobBudget returns the parallel job cap.
func (e *Environment) JobBudget() int {
	return e.jobs
}

// Snapshot returns the variables exported into every build.
func (e *Environment) Snapshot() map[string]string {
	env := map[string]string{
		"CC":                 filepath.Join(e.prefix, "bin", "clang"),
		"CXX":                filepath.Join(e.prefix, "bin", "clang++"),
		"CMAKE_PREFIX_PATH":  e.prefix,
		"CMAKE_INCLUDE_PATH": filepath.Join(e.prefix, "include"),
		"MAKEFLAGS":          fmt.Sprintf("-j%d", e.jobs),
		"NINJAFLAGS":         fmt.Sprintf("-j%d", e.jobs),
		"MAX_JOBS":           strconv.Itoa(e.jobs),
	}
	// The system temp dir is not writable inside the app sandbox.
	if e.hasPrefix {
		env["TMPDIR"] = filepath.Join(e.prefix, "tmp")
	}
	return env
}

// Export returns the snapshot as sorted KEY=VALUE pairs.
func (e *Environment) Export() []string {
	snapshot := e.Snapshot()
	pairs := make([]string, 0, len(snapshot))
	for key, value := range snapshot {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	return pairs
}

func detectJobs() int {
	totalMB, err := readMemTotalMB(memInfoPath)
	if err != nil {
		return jobsLow
	}
	return jobsForMemory(totalMB)
}

func jobsForMemory(totalMB int64) int {
	switch {
	case totalMB >= memHighMB:
		return jobsHigh
	case totalMB >= memMidMB:
		return jobsMid
	default:
		return jobsLow
	}
}

// readMemTotalMB parses the MemTotal line of a meminfo-format file.
func readMemTotalMB(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		rest, found := strings.CutPrefix(line, "MemTotal:")
		if !found {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			break
		}
		kb, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, err
		}
		return kb / 1024, nil
	}
	return 0, zerr.With(zerr.New("no MemTotal line in meminfo"), "path", path)
}
