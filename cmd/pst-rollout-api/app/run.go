package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patchstream/rollout-server/internal/app"
	"github.com/patchstream/rollout-server/internal/app/storage"
	"github.com/patchstream/rollout-server/internal/rollout"
	"github.com/patchstream/rollout-server/internal/rollout/coordinator"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single rollout run for one task",
	Long: `Execute a single rollout run for one task and exit.

This is the one-shot mode for deployments where an external scheduler (cron,
systemd timers, CI) drives the runs instead of the built-in coordinator. The
run uses the same engine and persists the same run status as a scheduled run,
and the command exits non-zero when the run fails.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	runCmd.Flags().String("task", "", "Name of the task to run (required)")
	runCmd.Flags().String("data-dir", "", "Directory for file-based storage (overrides fileStorage.baseDir)")

	if err := runCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	if err := runCmd.MarkFlagRequired("task"); err != nil {
		panic(err)
	}
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	taskName, err := cmd.Flags().GetString("task")
	if err != nil {
		return fmt.Errorf("failed to get task flag: %w", err)
	}

	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	if cfg.GetTask(taskName) == nil {
		names := make([]string, 0, len(cfg.Tasks))
		for _, task := range cfg.Tasks {
			names = append(names, task.Name)
		}
		return fmt.Errorf("task %q is not configured (configured tasks: %s)",
			taskName, strings.Join(names, ", "))
	}

	dataDir := cfg.GetFileStorageBaseDir()
	if cmd.Flags().Changed("data-dir") {
		dataDir, err = cmd.Flags().GetString("data-dir")
		if err != nil {
			return fmt.Errorf("failed to get data-dir flag: %w", err)
		}
	}

	factory, err := storage.NewStorageFactory(ctx, cfg, dataDir)
	if err != nil {
		return fmt.Errorf("failed to create storage factory: %w", err)
	}
	defer factory.Cleanup()

	trackingStore, err := factory.CreateTrackingStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to create tracking store: %w", err)
	}

	statusPersistence, err := factory.CreateStatusPersistence(ctx)
	if err != nil {
		return fmt.Errorf("failed to create status persistence: %w", err)
	}

	adminClient, err := app.NewAdminClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build administration server client: %w", err)
	}

	engine := rollout.NewEngine(adminClient, trackingStore)
	coord := coordinator.New(engine, statusPersistence, cfg)

	result, err := coord.RunTaskOnce(ctx, taskName)
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("rollout run failed (%s): %s", result.Err.Type, result.Err.Message)
	}

	slog.Info("Rollout run completed",
		"task", taskName,
		"new_approvals", result.NewApprovals,
		"promotions", result.Promotions,
		"blocked", result.Blocked,
		"open_entries", result.OpenEntries,
	)
	return nil
}
