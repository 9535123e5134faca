package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStatusPersistence implements StatusPersistence using a PostgreSQL
// backend. Each task owns one row in task_runs; saving upserts that row and
// never touches the tracking metadata column managed by the tracking store.
type postgresStatusPersistence struct {
	pool *pgxpool.Pool
}

// NewPostgresStatusPersistence creates a new database-backed status
// persistence with the given pgx pool. The caller is responsible for closing
// the pool when it is done.
func NewPostgresStatusPersistence(pool *pgxpool.Pool) StatusPersistence {
	return &postgresStatusPersistence{
		pool: pool,
	}
}

const selectStatusQuery = `
SELECT phase, message, run_id, last_run_at, last_success_at,
       new_approvals, promotions, blocked, attempt_count
FROM task_runs
WHERE task_name = $1`

const selectAllStatusQuery = `
SELECT task_name, phase, message, run_id, last_run_at, last_success_at,
       new_approvals, promotions, blocked, attempt_count
FROM task_runs
ORDER BY task_name`

const upsertStatusQuery = `
INSERT INTO task_runs (
	task_name, phase, message, run_id, last_run_at, last_success_at,
	new_approvals, promotions, blocked, attempt_count
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (task_name) DO UPDATE SET
	phase = EXCLUDED.phase,
	message = EXCLUDED.message,
	run_id = EXCLUDED.run_id,
	last_run_at = EXCLUDED.last_run_at,
	last_success_at = EXCLUDED.last_success_at,
	new_approvals = EXCLUDED.new_approvals,
	promotions = EXCLUDED.promotions,
	blocked = EXCLUDED.blocked,
	attempt_count = EXCLUDED.attempt_count`

// SaveStatus upserts the task's row in task_runs
func (p *postgresStatusPersistence) SaveStatus(ctx context.Context, taskName string, runStatus *RunStatus) error {
	if _, err := p.pool.Exec(ctx, upsertStatusQuery,
		taskName,
		string(runStatus.Phase),
		runStatus.Message,
		runStatus.RunID,
		runStatus.LastRunAt,
		runStatus.LastSuccessAt,
		runStatus.NewApprovals,
		runStatus.Promotions,
		runStatus.Blocked,
		runStatus.AttemptCount,
	); err != nil {
		return fmt.Errorf("failed to save run status for task '%s': %w", taskName, err)
	}

	return nil
}

// LoadStatus reads the task's row from task_runs.
// Returns an Idle RunStatus if the task has no row yet.
func (p *postgresStatusPersistence) LoadStatus(ctx context.Context, taskName string) (*RunStatus, error) {
	var runStatus RunStatus
	var phase string
	err := p.pool.QueryRow(ctx, selectStatusQuery, taskName).Scan(
		&phase,
		&runStatus.Message,
		&runStatus.RunID,
		&runStatus.LastRunAt,
		&runStatus.LastSuccessAt,
		&runStatus.NewApprovals,
		&runStatus.Promotions,
		&runStatus.Blocked,
		&runStatus.AttemptCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &RunStatus{Phase: RunPhaseIdle}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run status for task '%s': %w", taskName, err)
	}
	runStatus.Phase = RunPhase(phase)

	return &runStatus, nil
}

// LoadAllStatus reads every task's row from task_runs
func (p *postgresStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*RunStatus, error) {
	rows, err := p.pool.Query(ctx, selectAllStatusQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query run status records: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*RunStatus)
	for rows.Next() {
		var taskName string
		var phase string
		var runStatus RunStatus
		if err := rows.Scan(
			&taskName,
			&phase,
			&runStatus.Message,
			&runStatus.RunID,
			&runStatus.LastRunAt,
			&runStatus.LastSuccessAt,
			&runStatus.NewApprovals,
			&runStatus.Promotions,
			&runStatus.Blocked,
			&runStatus.AttemptCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run status record: %w", err)
		}
		runStatus.Phase = RunPhase(phase)
		result[taskName] = &runStatus
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run status records: %w", err)
	}

	return result, nil
}
