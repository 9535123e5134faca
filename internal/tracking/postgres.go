package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore implements Store using a PostgreSQL backend.
// Save replaces the task's rows inside a single transaction, so a failed
// save leaves the previously stored set intact, matching the crash-atomicity
// contract of the file store's temp-then-rename.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new database-backed tracking store with the
// given pgx pool. The caller is responsible for closing the pool when it is
// done.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{
		pool: pool,
	}
}

const selectEntriesQuery = `
SELECT update_id, task_name, title, reference_code, status,
       approved_for_test_at, eligible_for_promotion_at, promoted_at,
       successful_installations, failed_installations, pending_installations,
       status_message
FROM tracking_entries
WHERE task_name = $1
ORDER BY approved_for_test_at, update_id`

const selectEntriesUpdatedAtQuery = `
SELECT entries_updated_at FROM task_runs WHERE task_name = $1`

const deleteEntriesQuery = `
DELETE FROM tracking_entries WHERE task_name = $1`

const insertEntryQuery = `
INSERT INTO tracking_entries (
	update_id, task_name, title, reference_code, status,
	approved_for_test_at, eligible_for_promotion_at, promoted_at,
	successful_installations, failed_installations, pending_installations,
	status_message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const upsertEntriesUpdatedAtQuery = `
INSERT INTO task_runs (task_name, entries_updated_at)
VALUES ($1, $2)
ON CONFLICT (task_name) DO UPDATE SET entries_updated_at = EXCLUDED.entries_updated_at`

// Load reads the tracking set for a specific task.
// Returns an empty Set if the task has no stored entries yet.
func (p *postgresStore) Load(ctx context.Context, taskName string) (*Set, error) {
	rows, err := p.pool.Query(ctx, selectEntriesQuery, taskName)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking entries for task '%s': %w", taskName, err)
	}
	defer rows.Close()

	set := &Set{}
	for rows.Next() {
		var entry Entry
		var status string
		if err := rows.Scan(
			&entry.UpdateID,
			&entry.TaskName,
			&entry.Title,
			&entry.ReferenceCode,
			&status,
			&entry.ApprovedForTestAt,
			&entry.EligibleForPromotionAt,
			&entry.PromotedAt,
			&entry.SuccessfulInstallations,
			&entry.FailedInstallations,
			&entry.PendingInstallations,
			&entry.StatusMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tracking entry for task '%s': %w", taskName, err)
		}
		entry.Status = Status(status)
		set.Entries = append(set.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracking entries for task '%s': %w", taskName, err)
	}

	var lastUpdated *time.Time
	err = p.pool.QueryRow(ctx, selectEntriesUpdatedAtQuery, taskName).Scan(&lastUpdated)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read tracking metadata for task '%s': %w", taskName, err)
	}
	if lastUpdated != nil {
		set.LastUpdated = *lastUpdated
	}

	return set, nil
}

// Save replaces the stored tracking set for a specific task in a single
// transaction.
func (p *postgresStore) Save(ctx context.Context, taskName string, set *Set) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		err := tx.Rollback(ctx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, deleteEntriesQuery, taskName); err != nil {
		return fmt.Errorf("failed to clear tracking entries for task '%s': %w", taskName, err)
	}

	for i := range set.Entries {
		entry := &set.Entries[i]
		if _, err := tx.Exec(ctx, insertEntryQuery,
			entry.UpdateID,
			taskName,
			entry.Title,
			entry.ReferenceCode,
			string(entry.Status),
			entry.ApprovedForTestAt,
			entry.EligibleForPromotionAt,
			entry.PromotedAt,
			entry.SuccessfulInstallations,
			entry.FailedInstallations,
			entry.PendingInstallations,
			entry.StatusMessage,
		); err != nil {
			return fmt.Errorf("failed to insert tracking entry '%s' for task '%s': %w", entry.UpdateID, taskName, err)
		}
	}

	var lastUpdated *time.Time
	if !set.LastUpdated.IsZero() {
		lastUpdated = &set.LastUpdated
	}
	if _, err := tx.Exec(ctx, upsertEntriesUpdatedAtQuery, taskName, lastUpdated); err != nil {
		return fmt.Errorf("failed to update tracking metadata for task '%s': %w", taskName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
