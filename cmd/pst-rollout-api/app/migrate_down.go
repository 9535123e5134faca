package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert database migrations",
	Long: `Revert database schema migrations.
WARNING: This operation can result in data loss. Use with caution.

Examples:
  # Migrate down by 1 step
  pst-rollout-api migrate down --config config.yaml --num-steps 1 --yes

  # Migrate down all the way (WARNING: destroys all data)
  pst-rollout-api migrate down --config config.yaml --yes`,
	RunE: runMigrateDown,
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}

	m, _, err := newMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if !yes {
		var prompt string
		if numSteps == 0 {
			prompt = "WARNING: This will migrate down ALL steps and may result in complete data loss. Continue?"
		} else {
			prompt = fmt.Sprintf("WARNING: This will migrate down %d step(s) and may result in data loss. Continue?", numSteps)
		}
		if !confirm(prompt) {
			slog.Info("Migration cancelled")
			return fmt.Errorf("migration cancelled by user")
		}
	}

	if numSteps == 0 {
		slog.Warn("Migrating down all steps, this will remove the entire schema")
		err = m.Down()
	} else {
		// Check for overflow before conversion
		if numSteps > math.MaxInt {
			return fmt.Errorf("number of steps exceeds maximum allowed value")
		}
		slog.Info("Reverting migrations", "steps", numSteps)
		err = m.Steps(-1 * int(numSteps)) // #nosec G115 -- overflow checked above
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("No migrations to revert, database is already at the oldest version")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Migration completed successfully")
	displayMigrationVersion(m, numSteps == 0)
	return nil
}
