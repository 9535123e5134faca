package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/internal/tracking"
)

// FileFactory creates file-based storage components.
// All components created by this factory use the local filesystem for persistence.
type FileFactory struct {
	config  *config.Config
	dataDir string

	// File-mode dependencies (created once, shared by all components)
	trackingStore     tracking.Store
	statusPersistence status.StatusPersistence
}

var _ Factory = (*FileFactory)(nil)

// NewFileFactory creates a new file-based storage factory.
// Tracking data and run status share the same directory so a task's status
// file sits next to its tracking file. When dataDir is empty, the directory
// configured under fileStorage is used.
func NewFileFactory(cfg *config.Config, dataDir string) (*FileFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if dataDir == "" {
		dataDir = cfg.GetFileStorageBaseDir()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	slog.Info("Creating file-based storage factory", "data_dir", dataDir)

	return &FileFactory{
		config:            cfg,
		dataDir:           dataDir,
		trackingStore:     tracking.NewFileStore(dataDir),
		statusPersistence: status.NewFileStatusPersistence(dataDir),
	}, nil
}

// CreateTrackingStore creates a file-based store for rollout tracking entries.
func (f *FileFactory) CreateTrackingStore(_ context.Context) (tracking.Store, error) {
	slog.Debug("Creating file-based tracking store")
	return f.trackingStore, nil
}

// CreateStatusPersistence creates a file-based persistence layer for task run status.
func (f *FileFactory) CreateStatusPersistence(_ context.Context) (status.StatusPersistence, error) {
	slog.Debug("Creating file-based status persistence")
	return f.statusPersistence, nil
}

// Cleanup releases resources held by the file factory.
// For file storage, there are no resources to clean up (no connection pools, etc.).
func (*FileFactory) Cleanup() {
	slog.Debug("Cleaning up file storage factory (no-op)")
	// No resources to clean up for file storage
}
