package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the administration server",
	Long: `Check that the administration server is reachable with the configured
endpoint and credentials. When server.minVersion is set, the server version
is verified as well.`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := pingCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runPing(cmd *cobra.Command, _ []string) error {
	// The client constructor already verifies the minimum version when one
	// is configured
	client, cfg, err := adminClientFromFlags(cmd)
	if err != nil {
		return err
	}

	info, err := client.GetServerInfo(cmd.Context())
	if err != nil {
		return fmt.Errorf("administration server is not reachable: %w", err)
	}

	slog.Info("Administration server is reachable",
		"endpoint", cfg.Server.Endpoint,
		"name", info.Name,
		"version", info.Version,
	)
	return nil
}
