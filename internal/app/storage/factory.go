// Package storage provides factory functions for creating storage-dependent components.
// It implements the Abstract Factory pattern to ensure related components (tracking
// store, run status persistence) are created with compatible storage backends.
package storage

import (
	"context"
	"fmt"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/internal/tracking"
)

//go:generate mockgen -destination=mocks/mock_factory.go -package=mocks -source=factory.go Factory

// Factory creates storage-dependent components as a family.
// Implementations ensure all components are compatible with each other
// (e.g., all use database or all use file storage).
//
// The factory encapsulates the creation of:
// - tracking.Store: Persists per-task rollout tracking entries
// - status.StatusPersistence: Persists per-task run status records
//
// It also manages the lifecycle of storage resources (e.g., database connections).
type Factory interface {
	// CreateTrackingStore creates a store for rollout tracking entries.
	// The returned store uses storage appropriate for this factory's type
	// (file-based or database-backed).
	CreateTrackingStore(ctx context.Context) (tracking.Store, error)

	// CreateStatusPersistence creates a persistence layer for task run status.
	// The returned persistence uses storage appropriate for this factory's type.
	CreateStatusPersistence(ctx context.Context) (status.StatusPersistence, error)

	// Cleanup releases any resources held by this factory.
	// For database factories, this closes the connection pool.
	// For file factories, this is a no-op.
	// Should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured storage type.
// Returns a FileFactory for file-based storage or a DatabaseFactory for database storage.
func NewStorageFactory(ctx context.Context, cfg *config.Config, dataDir string) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		return NewDatabaseFactory(ctx, cfg)
	case config.StorageTypeFile:
		return NewFileFactory(cfg, dataDir)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.GetStorageType())
	}
}
