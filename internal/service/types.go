package service

import (
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/status"
)

// TaskStatus describes a configured rollout task together with its most
// recent run record
type TaskStatus struct {
	// Name is the unique task name
	Name string `json:"name"`

	// Interval is the effective run interval for the task
	Interval string `json:"interval"`

	// Policy is the task's rollout policy
	Policy TaskPolicy `json:"policy"`

	// LastRun is the task's most recent run record. A task that has never
	// run reports an Idle phase.
	LastRun *status.RunStatus `json:"lastRun"`
}

// TaskPolicy is the read-only policy view exposed by the status API
type TaskPolicy struct {
	TestGroups                     []string `json:"testGroups"`
	ProductionGroups               []string `json:"productionGroups,omitempty"`
	Classifications                []string `json:"classifications,omitempty"`
	CoolingOffDays                 int      `json:"coolingOffDays"`
	RequireSuccessfulInstallations bool     `json:"requireSuccessfulInstallations,omitempty"`
	MinimumSuccessfulInstallations int      `json:"minimumSuccessfulInstallations,omitempty"`
	AbortOnFailures                bool     `json:"abortOnFailures,omitempty"`
	MaxAllowedFailures             int      `json:"maxAllowedFailures,omitempty"`
	DeclineSupersededUpdates       bool     `json:"declineSupersededUpdates,omitempty"`
}

// newTaskStatus builds the API view of a configured task and its last run
func newTaskStatus(task *config.TaskConfig, lastRun *status.RunStatus) TaskStatus {
	return TaskStatus{
		Name:     task.Name,
		Interval: task.GetInterval().String(),
		Policy: TaskPolicy{
			TestGroups:                     task.Policy.TestGroups,
			ProductionGroups:               task.Policy.ProductionGroups,
			Classifications:                task.Policy.Classifications,
			CoolingOffDays:                 task.Policy.CoolingOffDays,
			RequireSuccessfulInstallations: task.Policy.RequireSuccessfulInstallations,
			MinimumSuccessfulInstallations: task.Policy.MinimumSuccessfulInstallations,
			AbortOnFailures:                task.Policy.AbortOnFailures,
			MaxAllowedFailures:             task.Policy.MaxAllowedFailures,
			DeclineSupersededUpdates:       task.Policy.DeclineSupersededUpdates,
		},
		LastRun: lastRun,
	}
}
