package harvest

import (
	"slices"
	"time"
)

// RunStatus represents the lifecycle state of a harvest run.
type RunStatus string

// String returns the string representation of a run status.
func (s RunStatus) String() string {
	return string(s)
}

// Run lifecycle states.
const (
	// RunStatusRunning marks a run still executing its stages
	RunStatusRunning RunStatus = "running"
	// RunStatusFinished marks a run that completed, possibly with
	// per-object failures
	RunStatusFinished RunStatus = "finished"
	// RunStatusErrored marks a run aborted by a gather-level failure
	RunStatusErrored RunStatus = "errored"
)

// RunStatuses returns all defined run statuses.
func RunStatuses() []RunStatus {
	return []RunStatus{
		RunStatusRunning,
		RunStatusFinished,
		RunStatusErrored,
	}
}

// IsValid returns true if the status is one of the defined constants.
func (s RunStatus) IsValid() bool {
	return slices.Contains(RunStatuses(), s)
}

// Run is one gather-fetch-import execution against one source.
type Run struct {
	// ID is assigned by the store on create when empty
	ID string

	// SourceID names the harvested source
	SourceID string

	// Status is the run lifecycle state
	Status RunStatus

	// CreatedAt is when the run started
	CreatedAt time.Time

	// FinishedAt is when the run reached a terminal status, nil while running
	FinishedAt *time.Time

	// Counters accumulated while the run executes
	ObjectsGathered int
	ObjectsImported int
	ObjectsFailed   int
	ObjectsDeleted  int
}

// Finish stamps the run with a terminal status and the finish time.
func (r *Run) Finish(status RunStatus, at time.Time) {
	r.Status = status
	r.FinishedAt = &at
}
