package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/rollout"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/internal/telemetry"
)

const (
	// basePollingInterval is the base interval at which the coordinator checks for due tasks
	basePollingInterval = 2 * time.Minute
	// pollingJitter is the maximum random offset (±30 seconds) applied to the polling interval
	pollingJitter = 30 * time.Second
)

// Coordinator manages background rollout scheduling and execution for multiple tasks
type Coordinator interface {
	// Start begins background rollout coordination for all configured tasks
	// Blocks until context is cancelled or an unrecoverable error occurs
	Start(ctx context.Context) error

	// Stop gracefully stops the coordinator and waits for in-flight runs
	Stop() error

	// RunTaskOnce executes a single run for the named task and waits for it
	// to finish. Used by one-shot invocations driven by an external scheduler.
	RunTaskOnce(ctx context.Context, taskName string) (*rollout.Result, error)
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	engine      rollout.Engine
	persistence status.StatusPersistence
	config      *config.Config

	// Lifecycle management
	cancelFunc context.CancelFunc
	done       chan struct{}

	// One slot per task; a tick that finds the slot taken skips the task
	runSlots map[string]*sync.Mutex
	runWG    sync.WaitGroup

	// Metrics
	rolloutMetrics *telemetry.RolloutMetrics
	taskMetrics    *telemetry.TaskMetrics
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithRolloutMetrics sets the rollout run metrics for the coordinator
func WithRolloutMetrics(metrics *telemetry.RolloutMetrics) Option {
	return func(c *defaultCoordinator) {
		c.rolloutMetrics = metrics
	}
}

// WithTaskMetrics sets the per-task outcome metrics for the coordinator
func WithTaskMetrics(metrics *telemetry.TaskMetrics) Option {
	return func(c *defaultCoordinator) {
		c.taskMetrics = metrics
	}
}

// New creates a new coordinator with injected dependencies
func New(
	engine rollout.Engine,
	persistence status.StatusPersistence,
	cfg *config.Config,
	opts ...Option,
) Coordinator {
	c := &defaultCoordinator{
		engine:      engine,
		persistence: persistence,
		config:      cfg,
		done:        make(chan struct{}),
		runSlots:    make(map[string]*sync.Mutex, len(cfg.Tasks)),
	}

	for i := range cfg.Tasks {
		c.runSlots[cfg.Tasks[i].Name] = &sync.Mutex{}
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// calculatePollingInterval returns the base polling interval with a random jitter applied.
// The jitter is ±30 seconds to prevent all instances from polling simultaneously.
func calculatePollingInterval() time.Duration {
	// Generate a random offset between -pollingJitter and +pollingJitter
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for polling jitter
	jitterOffset := time.Duration(rand.Int64N(int64(2*pollingJitter))) - pollingJitter
	return basePollingInterval + jitterOffset
}

// Start begins background rollout coordination for all configured tasks
func (c *defaultCoordinator) Start(ctx context.Context) error {
	slog.Info("Starting rollout coordinator", "task_count", len(c.config.Tasks))

	// Create cancellable context for this coordinator
	coordCtx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	defer func() {
		c.runWG.Wait()
		close(c.done)
		slog.Info("Rollout coordinator shutting down")
	}()

	// Mark runs a previous process left in Running as failed
	taskNames := make([]string, 0, len(c.config.Tasks))
	for i := range c.config.Tasks {
		taskNames = append(taskNames, c.config.Tasks[i].Name)
	}
	if err := status.ResetInterrupted(ctx, c.persistence, taskNames); err != nil {
		return fmt.Errorf("failed to reset interrupted runs: %w", err)
	}

	// Calculate polling interval with jitter to prevent thundering herd
	pollingInterval := calculatePollingInterval()
	slog.Info("Configured coordinator polling interval",
		"base_interval", basePollingInterval,
		"actual_interval", pollingInterval)

	// Create ticker for periodic schedule checks
	ticker := time.NewTicker(pollingInterval)
	defer ticker.Stop()

	// Perform initial check so due tasks don't wait a full interval after startup
	c.processDueTasks(coordCtx)

	// Run the coordinator loop
	for {
		select {
		case <-ticker.C:
			c.processDueTasks(coordCtx)

			// Recalculate interval with new jitter for next iteration
			ticker.Reset(calculatePollingInterval())
		case <-coordCtx.Done():
			slog.Info("Rollout coordinator stopping")
			return nil
		}
	}
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	if c.cancelFunc != nil {
		slog.Info("Stopping rollout coordinator")
		c.cancelFunc()
		// Wait for the loop and any in-flight runs to finish
		<-c.done
	}
	return nil
}

// processDueTasks starts a run for every task whose interval has elapsed.
// Each run gets its own goroutine so a slow task cannot delay the others;
// the per-task slot guarantees at most one run per task at a time.
func (c *defaultCoordinator) processDueTasks(ctx context.Context) {
	for i := range c.config.Tasks {
		task := &c.config.Tasks[i]

		due, err := c.taskIsDue(ctx, task)
		if err != nil {
			slog.Error("Error checking task schedule", "task", task.Name, "error", err)
			continue
		}
		if !due {
			continue
		}

		slot := c.runSlots[task.Name]
		if !slot.TryLock() {
			slog.Info("Skipping task run, previous run still in progress", "task", task.Name)
			continue
		}

		c.runWG.Add(1)
		go func() {
			defer c.runWG.Done()
			defer slot.Unlock()
			c.performTaskRun(ctx, task)
		}()
	}
}

// taskIsDue reports whether the task's interval has elapsed since its last run
func (c *defaultCoordinator) taskIsDue(ctx context.Context, task *config.TaskConfig) (bool, error) {
	runStatus, err := c.persistence.LoadStatus(ctx, task.Name)
	if err != nil {
		return false, err
	}
	if runStatus.LastRunAt == nil {
		return true, nil
	}
	return time.Since(*runStatus.LastRunAt) >= task.GetInterval(), nil
}

// RunTaskOnce executes a single run for the named task synchronously. The run
// persists the same status transitions as a scheduled run, so one-shot
// invocations show up in the status API like any other run.
func (c *defaultCoordinator) RunTaskOnce(ctx context.Context, taskName string) (*rollout.Result, error) {
	task := c.config.GetTask(taskName)
	if task == nil {
		return nil, fmt.Errorf("task not found: %s", taskName)
	}

	slot, ok := c.runSlots[taskName]
	if !ok {
		return nil, fmt.Errorf("task not found: %s", taskName)
	}
	if !slot.TryLock() {
		return nil, fmt.Errorf("task %s already has a run in progress", taskName)
	}
	defer slot.Unlock()

	return c.performTaskRun(ctx, task), nil
}

// performTaskRun executes a rollout run for a task and persists the status
// transitions around it
func (c *defaultCoordinator) performTaskRun(ctx context.Context, task *config.TaskConfig) *rollout.Result {
	taskName := task.Name
	startTime := time.Now()

	// Load the current record so LastSuccessAt and the attempt counter carry over
	runStatus, err := c.persistence.LoadStatus(ctx, taskName)
	if err != nil {
		slog.ErrorContext(ctx, "Error loading run status", "task", taskName, "error", err)
		runStatus = &status.RunStatus{Phase: status.RunPhaseIdle}
	}

	now := time.Now().UTC()
	runStatus.Phase = status.RunPhaseRunning
	runStatus.Message = "Run in progress"
	runStatus.RunID = uuid.NewString()
	runStatus.LastRunAt = &now
	runStatus.AttemptCount++

	// Persist the Running record so the status API reflects the run while it
	// is in flight
	if err := c.persistence.SaveStatus(ctx, taskName, runStatus); err != nil {
		slog.ErrorContext(ctx, "Error updating run status", "task", taskName, "error", err)
	}

	// Set up the final status update in a defer block to ensure the record
	// never stays in Running when this function exits.
	// Set a default failure here in case the run is killed by an unexpected error.
	runStatus.Phase = status.RunPhaseFailed
	runStatus.Message = fmt.Sprintf("Unexpected failure while running task %s", taskName)
	defer func() {
		// The final record must be written even during shutdown, otherwise a
		// graceful stop looks like an interrupted run on the next start
		if err := c.persistence.SaveStatus(context.WithoutCancel(ctx), taskName, runStatus); err != nil {
			slog.ErrorContext(ctx, "Error updating run status", "task", taskName, "error", err)
		}
	}()

	slog.InfoContext(ctx, "Starting rollout run", "task", taskName, "run_id", runStatus.RunID)

	// Perform the run
	result := c.engine.RunTask(ctx, taskName, &task.Policy)

	// Calculate run duration for metrics
	runDuration := time.Since(startTime)

	// Update status based on result
	finished := time.Now().UTC()
	if result.Success {
		runStatus.Phase = status.RunPhaseSucceeded
		runStatus.Message = "Run completed"
		runStatus.LastSuccessAt = &finished
		runStatus.NewApprovals = result.NewApprovals
		runStatus.Promotions = result.Promotions
		runStatus.Blocked = result.Blocked
		runStatus.AttemptCount = 0
		slog.InfoContext(ctx, "Rollout run completed",
			"task", taskName,
			"run_id", runStatus.RunID,
			"new_approvals", result.NewApprovals,
			"promotions", result.Promotions,
			"blocked", result.Blocked)

		// Record run success metric
		if c.rolloutMetrics != nil {
			c.rolloutMetrics.RecordRunDuration(ctx, taskName, runDuration, true)
		}

		// Record per-task decision counts and the open-entry gauge
		if c.taskMetrics != nil {
			c.taskMetrics.RecordDecisions(ctx, taskName, telemetry.DecisionApproved, int64(result.NewApprovals))
			c.taskMetrics.RecordDecisions(ctx, taskName, telemetry.DecisionPromoted, int64(result.Promotions))
			c.taskMetrics.RecordDecisions(ctx, taskName, telemetry.DecisionBlocked, int64(result.Blocked))
			c.taskMetrics.RecordOpenEntries(ctx, taskName, int64(result.OpenEntries))
		}
	} else {
		runStatus.Phase = status.RunPhaseFailed
		runStatus.Message = result.Err.Message
		slog.ErrorContext(ctx, "Rollout run failed",
			"task", taskName,
			"run_id", runStatus.RunID,
			"error", result.Err.Message,
			"error_type", result.Err.Type)

		// Record run failure metric
		if c.rolloutMetrics != nil {
			c.rolloutMetrics.RecordRunDuration(ctx, taskName, runDuration, false)
		}
	}

	return result
}
