package status

import (
	"context"
	"fmt"
	"log/slog"
)

// ResetInterrupted marks any task left in the Running phase by a previous
// process as Failed. A crashed run cannot be resumed, and every engine
// mutation is idempotent, so the next scheduled run simply starts over.
func ResetInterrupted(ctx context.Context, persistence StatusPersistence, taskNames []string) error {
	for _, taskName := range taskNames {
		runStatus, err := persistence.LoadStatus(ctx, taskName)
		if err != nil {
			return fmt.Errorf("failed to load run status for task '%s': %w", taskName, err)
		}
		if runStatus.Phase != RunPhaseRunning {
			continue
		}

		slog.WarnContext(ctx, "Resetting interrupted run",
			"task", taskName,
			"run_id", runStatus.RunID,
		)
		runStatus.Phase = RunPhaseFailed
		runStatus.Message = "previous run was interrupted"
		if err := persistence.SaveStatus(ctx, taskName, runStatus); err != nil {
			return fmt.Errorf("failed to reset run status for task '%s': %w", taskName, err)
		}
	}

	return nil
}
