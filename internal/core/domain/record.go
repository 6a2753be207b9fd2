package domain

import (
	"errors"
	"time"
)

// Stage identifies where in the pipeline a package failed.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StagePatch   Stage = "patch"
	StageBuild   Stage = "build"
	StageInstall Stage = "install"
)

// ProgressRecord is persisted evidence that a phase has been fully processed.
type ProgressRecord struct {
	PhaseIndex  int
	CompletedAt time.Time

	// Env is the environment snapshot captured at phase completion.
	// Populated from the snapshot file; nil when only the progress line
	// survives.
	Env map[string]string
}

// ErrorRecord is an appended diagnostic entry. Records never drive control
// flow; they exist so a failed run can be diagnosed after the fact.
type ErrorRecord struct {
	Package   string
	Stage     Stage
	Message   string
	Timestamp time.Time
}

// NewErrorRecord builds a record for the given package and error,
// classifying the stage from the error chain.
func NewErrorRecord(pkg string, err error) ErrorRecord {
	return ErrorRecord{
		Package:   pkg,
		Stage:     StageForError(err),
		Message:   err.Error(),
		Timestamp: time.Now(),
	}
}

// StageForError maps an error chain to the pipeline stage it failed in.
// Exhausted-tier errors are attributed to the build stage since that is the
// last tier that could have produced the artifact.
func StageForError(err error) Stage {
	switch {
	case errors.Is(err, ErrFetchFailed):
		return StageFetch
	case errors.Is(err, ErrPatchFailed), errors.Is(err, ErrPatchTargetMissing):
		return StagePatch
	case errors.Is(err, ErrInstallFailed):
		return StageInstall
	default:
		return StageBuild
	}
}
