package ports

import "github.com/droidrun/depbuilder/internal/core/domain"

// StateStore defines the interface for persisting phase progress across runs.
//
// Implementations must write durably: a progress record observed by one run
// must survive a crash and be observed by the next.
//
//go:generate mockgen -source=state.go -destination=mocks/mock_state.go -package=mocks
type StateStore interface {
	// IsPhaseComplete reports whether a completion record exists for the phase.
	// A missing or unreadable store means not complete, never an error.
	IsPhaseComplete(index int) bool

	// MarkPhaseComplete durably records the phase as complete together with
	// the environment snapshot active when it finished.
	MarkPhaseComplete(index int, env map[string]string) error

	// Reset removes the completion record for one phase.
	Reset(index int) error

	// ResetAll removes every completion record and the environment snapshot.
	ResetAll() error

	// Records returns every persisted completion record, ordered by phase.
	Records() ([]domain.ProgressRecord, error)

	// Environment returns the most recent environment snapshot, or an empty
	// map when none was recorded.
	Environment() (map[string]string, error)

	// AppendError appends a diagnostic record to the error log. Append-only;
	// failures to append must not fail the run.
	AppendError(rec domain.ErrorRecord)
}
