package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending database migrations",
	Long: `Apply pending database migrations to bring the schema up to date.
This command reads the database connection parameters from the config file
and applies all migrations that haven't been run yet.

Examples:
  # Apply all pending migrations
  pst-rollout-api migrate up --config config.yaml --yes

  # Apply the next migration only
  pst-rollout-api migrate up --config config.yaml --num-steps 1 --yes`,
	RunE: runMigrateUp,
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}

	m, dbCfg, err := newMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if !yes {
		prompt := fmt.Sprintf("About to apply migrations to database %s@%s:%d/%s. Continue?",
			dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Database)
		if !confirm(prompt) {
			slog.Info("Migration cancelled")
			return fmt.Errorf("migration cancelled by user")
		}
	}

	if numSteps == 0 {
		slog.Info("Applying all pending migrations")
		err = m.Up()
	} else {
		// Check for overflow before conversion
		if numSteps > math.MaxInt {
			return fmt.Errorf("number of steps exceeds maximum allowed value")
		}
		slog.Info("Applying migrations", "steps", numSteps)
		err = m.Steps(int(numSteps)) // #nosec G115 -- overflow checked above
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("Database schema is already up to date")
			displayMigrationVersion(m, false)
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Migrations applied successfully")
	displayMigrationVersion(m, false)
	return nil
}
