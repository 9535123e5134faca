package status

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patchstream/rollout-server/internal/config"
)

// NewStatusPersistence creates a StatusPersistence based on the configured
// storage type. The file backend shares baseDir with the tracking store so a
// task's status sits next to its tracking data; the database backend requires
// a non-nil pool.
func NewStatusPersistence(cfg *config.Config, baseDir string, pool *pgxpool.Pool) (StatusPersistence, error) {
	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		if pool == nil {
			return nil, fmt.Errorf("database pool is required when storage type is database")
		}
		return NewPostgresStatusPersistence(pool), nil
	case config.StorageTypeFile:
		return NewFileStatusPersistence(baseDir), nil
	default:
		// Default to file-based storage for unknown types
		return NewFileStatusPersistence(baseDir), nil
	}
}
