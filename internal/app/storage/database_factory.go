package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/db"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/internal/tracking"
)

// DatabaseFactory creates database-backed storage components.
// All components created by this factory use PostgreSQL for persistence.
type DatabaseFactory struct {
	config *config.Config
	conn   *db.Connection
}

var _ Factory = (*DatabaseFactory)(nil)

// NewDatabaseFactory creates a new database-backed storage factory.
// It establishes a connection pool to the configured PostgreSQL database.
func NewDatabaseFactory(ctx context.Context, cfg *config.Config) (*DatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required for database storage type")
	}

	slog.Info("Creating database-backed storage factory")

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	return &DatabaseFactory{
		config: cfg,
		conn:   conn,
	}, nil
}

// CreateTrackingStore creates a database-backed store for rollout tracking entries.
func (d *DatabaseFactory) CreateTrackingStore(_ context.Context) (tracking.Store, error) {
	slog.Debug("Creating database-backed tracking store")
	return tracking.NewPostgresStore(d.conn.Pool), nil
}

// CreateStatusPersistence creates a database-backed persistence layer for task run status.
func (d *DatabaseFactory) CreateStatusPersistence(_ context.Context) (status.StatusPersistence, error) {
	slog.Debug("Creating database-backed status persistence")
	return status.NewPostgresStatusPersistence(d.conn.Pool), nil
}

// Cleanup releases resources held by the database factory.
// This closes the database connection pool and any active connections.
func (d *DatabaseFactory) Cleanup() {
	if d.conn != nil {
		d.conn.Close()
	}
}
