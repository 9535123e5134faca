package rollout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patchstream/rollout-server/internal/adminapi"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/tracking"
)

// Engine executes rollout runs for configured tasks
//
//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks github.com/patchstream/rollout-server/internal/rollout Engine
type Engine interface {
	// RunTask executes a single approval and promotion run for one task.
	// The returned Result is always non-nil; Result.Err carries the terminal
	// failure when Success is false.
	RunTask(ctx context.Context, taskName string, policy *config.PolicyConfig) *Result
}

// defaultEngine is the default implementation of Engine
type defaultEngine struct {
	client adminapi.Client
	store  tracking.Store
}

// NewEngine creates an engine bound to an admin API client and a tracking
// store. The engine itself is stateless; all rollout state lives in the store.
func NewEngine(client adminapi.Client, store tracking.Store) Engine {
	return &defaultEngine{
		client: client,
		store:  store,
	}
}

// RunTask executes a single run: load the tracking set, run the approval
// phase, save, run the promotion phase, save. The set is saved after each
// phase so a failure in the promotion phase never rolls back approvals that
// were already granted.
func (e *defaultEngine) RunTask(ctx context.Context, taskName string, policy *config.PolicyConfig) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Rollout run panicked", "task", taskName, "panic", r)
			result = &Result{
				Success: false,
				Err: &Error{
					Message: fmt.Sprintf("unexpected error: %v", r),
					Type:    ErrorTypeInternal,
				},
			}
		}
	}()

	set, err := e.store.Load(ctx, taskName)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load tracking data", "task", taskName, "error", err)
		return &Result{
			Success: false,
			Err: &Error{
				Err:     err,
				Message: fmt.Sprintf("failed to load tracking data: %v", err),
				Type:    ErrorTypeStore,
			},
		}
	}

	newApprovals := e.runApprovalPhase(ctx, taskName, policy, set)

	if err := e.saveSet(ctx, taskName, set); err != nil {
		slog.ErrorContext(ctx, "Failed to save tracking data after approval phase", "task", taskName, "error", err)
		return &Result{
			Success:      false,
			NewApprovals: newApprovals,
			Err: &Error{
				Err:     err,
				Message: fmt.Sprintf("failed to save tracking data: %v", err),
				Type:    ErrorTypeStore,
			},
		}
	}

	promotions, blocked, runErr := e.runPromotionPhase(ctx, taskName, policy, set)
	if runErr != nil {
		slog.ErrorContext(ctx, "Promotion phase failed", "task", taskName, "error", runErr.Message)
		return &Result{
			Success:      false,
			NewApprovals: newApprovals,
			Err:          runErr,
		}
	}

	if err := e.saveSet(ctx, taskName, set); err != nil {
		slog.ErrorContext(ctx, "Failed to save tracking data after promotion phase", "task", taskName, "error", err)
		return &Result{
			Success:      false,
			NewApprovals: newApprovals,
			Promotions:   promotions,
			Blocked:      blocked,
			Err: &Error{
				Err:     err,
				Message: fmt.Sprintf("failed to save tracking data: %v", err),
				Type:    ErrorTypeStore,
			},
		}
	}

	return &Result{
		Success:      true,
		NewApprovals: newApprovals,
		Promotions:   promotions,
		Blocked:      blocked,
		OpenEntries:  len(set.Open()),
	}
}

// saveSet stamps the set and writes it to the store. The save must complete
// even when the run's context has been cancelled, so decisions already
// applied to the set are not lost on shutdown.
func (e *defaultEngine) saveSet(ctx context.Context, taskName string, set *tracking.Set) error {
	set.LastUpdated = time.Now().UTC()
	return e.store.Save(context.WithoutCancel(ctx), taskName, set)
}
