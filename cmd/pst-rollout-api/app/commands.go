// Package app provides the entry point for the rollout API application.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patchstream/rollout-server/internal/adminapi"
	"github.com/patchstream/rollout-server/internal/app"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "pst-rollout-api",
	DisableAutoGenTag: true,
	Short:             "Patch rollout server",
	Long: `Patch rollout server automates staged update approvals: it approves new
updates for test groups, waits out a cooling-off period, and promotes updates
that installed cleanly to production groups.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates a new root command for the rollout API.
func NewRootCmd() *cobra.Command {
	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(updatesCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)

	return rootCmd
}

// loadConfigFromFlags loads the configuration file named by the command's
// --config flag.
func loadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// adminClientFromFlags loads the configuration named by the command's
// --config flag and builds an administration server client from it.
func adminClientFromFlags(cmd *cobra.Command) (adminapi.Client, *config.Config, error) {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}

	client, err := app.NewAdminClient(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build administration server client: %w", err)
	}

	return client, cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			slog.Error("Error retrieving format flag", "error", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				slog.Error("Error formatting version info as JSON", "error", err)
				return
			}
			fmt.Println(string(output))
		} else {
			slog.Info("pst-rollout-api version",
				"version", info.Version,
				"commit", info.Commit,
				"built", info.BuildDate,
				"go", info.GoVersion,
				"platform", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
