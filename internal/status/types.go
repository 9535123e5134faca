package status

import "time"

// RunPhase represents the lifecycle phase of a task's rollout run
type RunPhase string

const (
	// RunPhaseIdle means no run has been recorded for the task yet
	RunPhaseIdle RunPhase = "Idle"

	// RunPhaseRunning means a run is currently in progress
	RunPhaseRunning RunPhase = "Running"

	// RunPhaseSucceeded means the last run completed successfully
	RunPhaseSucceeded RunPhase = "Succeeded"

	// RunPhaseFailed means the last run failed
	RunPhaseFailed RunPhase = "Failed"
)

// RunStatus represents the persisted record of a task's most recent rollout run
type RunStatus struct {
	// Phase represents the current run phase
	Phase RunPhase `json:"phase"`

	// Message provides additional information about the run outcome
	Message string `json:"message,omitempty"`

	// RunID correlates the persisted record with the log output of the run
	RunID string `json:"runId,omitempty"`

	// LastRunAt is the timestamp of the last run attempt
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`

	// LastSuccessAt is the timestamp of the last successful run
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`

	// NewApprovals is the number of updates approved for test groups by the last run
	NewApprovals int `json:"newApprovals"`

	// Promotions is the number of updates promoted to production by the last run
	Promotions int `json:"promotions"`

	// Blocked is the number of updates held back by the last run
	Blocked int `json:"blocked"`

	// AttemptCount is the number of runs since the last success
	AttemptCount int `json:"attemptCount,omitempty"`
}
