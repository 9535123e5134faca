package tracking

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patchstream/rollout-server/internal/config"
)

// NewStore creates a Store based on the configured storage type.
//
// For file-based storage, it returns a store that writes per-task JSON files
// under baseDir.
//
// For database storage, it returns a store backed by PostgreSQL. The pool
// parameter must not be nil when database storage is configured.
func NewStore(cfg *config.Config, baseDir string, pool *pgxpool.Pool) (Store, error) {
	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		if pool == nil {
			return nil, fmt.Errorf("database pool is required when storage type is database")
		}
		return NewPostgresStore(pool), nil
	case config.StorageTypeFile:
		return NewFileStore(baseDir), nil
	default:
		// Default to file-based storage for unknown types
		return NewFileStore(baseDir), nil
	}
}
