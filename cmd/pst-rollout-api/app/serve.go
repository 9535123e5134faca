package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patchstream/rollout-server/internal/app"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rollout API server",
	Long: `Start the rollout API server and the background rollout coordinator.

The server requires a configuration file (--config) that specifies:
- The administration server endpoint and credentials
- The rollout tasks with their target groups and promotion policies
- The tracking storage backend (file or database)

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	// defaultGracefulTimeout bounds shutdown so an unresponsive in-flight
	// run cannot hold the process open past the orchestrator's kill window
	defaultGracefulTimeout = 30 * time.Second

	// telemetryShutdownTimeout bounds the final telemetry flush on exit
	telemetryShutdownTimeout = 5 * time.Second
)

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	serveCmd.Flags().String("data-dir", "", "Directory for file-based storage (overrides fileStorage.baseDir)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Error binding address flag", "error", err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Error binding config flag", "error", err)
	}
	if err := viper.BindPFlag("data-dir", serveCmd.Flags().Lookup("data-dir")); err != nil {
		slog.Error("Error binding data-dir flag", "error", err)
	}

	// Mark config as required
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	address := viper.GetString("address")
	configPath := viper.GetString("config")

	slog.Info("Starting rollout API server", "address", address)

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration",
		"path", configPath,
		"server_name", cfg.ServerName,
		"tasks", len(cfg.Tasks),
		"storage", cfg.GetStorageType(),
	)

	// Initialize telemetry before the app so both provider handles exist
	// when the components are wired
	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// The data-dir flag wins over the configured base directory
	dataDir := cfg.GetFileStorageBaseDir()
	if cmd.Flags().Changed("data-dir") {
		dataDir = viper.GetString("data-dir")
	}

	rolloutApp, err := app.NewRolloutApp(ctx,
		app.WithConfig(cfg),
		app.WithAddress(address),
		app.WithDataDirectory(dataDir),
		app.WithMeterProvider(tel.MeterProvider()),
		app.WithTracerProvider(tel.TracerProvider()),
	)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- rolloutApp.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		// The server failed before a shutdown was requested. Stop still
		// runs so the storage factory is released.
		if stopErr := rolloutApp.Stop(defaultGracefulTimeout); stopErr != nil {
			slog.Error("Error stopping application", "error", stopErr)
		}
		return err
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig.String())
	}

	if err := rolloutApp.Stop(defaultGracefulTimeout); err != nil {
		return err
	}

	// Start returns once the HTTP server has finished shutting down
	if err := <-errChan; err != nil {
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}
