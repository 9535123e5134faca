// Package app provides application lifecycle management for the rollout server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patchstream/rollout-server/internal/config"
)

// RolloutApp encapsulates all components needed to run the rollout API server
// It provides lifecycle management and graceful shutdown capabilities
type RolloutApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the application components (HTTP server and background rollout runs)
// This method blocks until the HTTP server stops or encounters an error
func (app *RolloutApp) Start() error {
	// Start rollout coordinator in background
	go func() {
		if err := app.components.Coordinator.Start(app.ctx); err != nil {
			slog.Error("Rollout coordinator failed", "error", err)
		}
	}()

	// Start HTTP server (blocks until stopped)
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout
// It stops the rollout coordinator and then shuts down the HTTP server
func (app *RolloutApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	// Stop rollout coordinator first
	if err := app.components.Coordinator.Stop(); err != nil {
		slog.Error("Failed to stop rollout coordinator", "error", err)
	}

	// Cancel the application context
	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	// Graceful HTTP server shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *RolloutApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *RolloutApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
