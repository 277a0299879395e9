package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence/models"
)

const (
	insertRunQuery = `
		INSERT INTO sync_runs (
			run_id, started_at, finished_at, status,
			employees, departments, organizations, paths_resolved, error
		) VALUES (
			:run_id, :started_at, :finished_at, :status,
			:employees, :departments, :organizations, :paths_resolved, :error
		)`

	recentRunsQuery = `
		SELECT run_id, started_at, finished_at, status,
			employees, departments, organizations, paths_resolved, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`
)

// RunLog stores one row per sync run in sync_runs.
type RunLog struct {
	db *sqlx.DB
}

func NewRunLog(db *sqlx.DB) *RunLog {
	return &RunLog{db: db}
}

func (l *RunLog) Record(ctx context.Context, run domain.SyncRun) error {
	row := toDBSyncRun(&run)
	if _, err := l.db.NamedExecContext(ctx, insertRunQuery, row); err != nil {
		return err
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (l *RunLog) Recent(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	var rows []models.SyncRun
	if err := l.db.SelectContext(ctx, &rows, recentRunsQuery, limit); err != nil {
		return nil, err
	}
	out := make([]domain.SyncRun, 0, len(rows))
	for i := range rows {
		run, err := toDomainSyncRun(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}
