package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patchstream/rollout-server/database"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tool",
	Long:  `Database migration tool for managing schema versions. Use with 'up' or 'down' subcommands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

func init() {
	migrateCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	migrateCmd.PersistentFlags().UintP("num-steps", "n", 0, "Number of steps to migrate (0 = all)")
	migrateCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := migrateCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	// Add subcommands
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

// newMigrator loads the configuration named by the command's --config flag
// and opens a migrator against the configured database.
func newMigrator(cmd *cobra.Command) (database.Migrator, *config.DatabaseConfig, error) {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database == nil {
		return nil, nil, fmt.Errorf("database configuration is required")
	}

	connString, err := db.ConnectionString(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	m, err := database.NewFromConnectionString(connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, cfg.Database, nil
}

// closeMigrator closes the migrator and logs any errors
func closeMigrator(m database.Migrator) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		slog.Error("Error closing migrator", "source_error", srcErr, "database_error", dbErr)
	}
}

// confirm prompts the user on stdin and reports whether they answered yes
func confirm(prompt string) bool {
	fmt.Printf("%s (yes/no): ", prompt)
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}

// displayMigrationVersion logs the schema version after a migration.
// A missing version after a full down migration means the schema is gone,
// which is the expected outcome rather than an error.
func displayMigrationVersion(m database.Migrator, allDown bool) {
	version, dirty, err := m.Version()
	if err != nil {
		if allDown {
			slog.Info("Database schema has been completely removed")
		} else {
			slog.Warn("Failed to get migration version", "error", err)
		}
		return
	}

	if dirty {
		slog.Warn("Database is in a dirty state, manual intervention may be required", "version", version)
	} else {
		slog.Info("Current migration version", "version", version)
	}
}
