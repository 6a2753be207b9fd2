package domain

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// SnapshotID returns a short stable identifier for an environment snapshot.
// It is order independent so two snapshots with the same key/value pairs
// always hash identically; the orchestrator logs it so an operator can tell
// at a glance whether a resumed run reconstructed the same build environment.
func SnapshotID(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(env[k])
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
