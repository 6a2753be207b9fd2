package domain

// RunStatus is the terminal state of an orchestrator run.
type RunStatus string

const (
	// StatusCompleted indicates every phase finished, possibly with optional
	// packages degraded.
	StatusCompleted RunStatus = "Completed"
	// StatusFailedRequired indicates a required package failed and the run
	// was aborted.
	StatusFailedRequired RunStatus = "FailedRequired"
	// StatusAbortedByUser indicates the run was cancelled.
	StatusAbortedByUser RunStatus = "AbortedByUser"
)

// RunResult summarizes an orchestrator run.
type RunResult struct {
	Status RunStatus

	// Degraded lists optional packages that exhausted every tier.
	Degraded []string

	// FailedPackage is the required package that aborted the run, when
	// Status is StatusFailedRequired.
	FailedPackage string

	// Errors holds every error record appended during the run.
	Errors []ErrorRecord

	// SkippedPhases lists phases skipped because a progress record existed.
	SkippedPhases []int

	// CompletedPhases lists phases processed and marked complete in this run.
	CompletedPhases []int
}

// IsDegraded reports whether the run completed but left optional packages
// uninstalled.
func (r RunResult) IsDegraded() bool {
	return r.Status == StatusCompleted && len(r.Degraded) > 0
}
