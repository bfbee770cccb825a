package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/graphenelabs/graphbot/internal/model"
)

// Tasks provides access to the airdrop_tasks table.
type Tasks struct {
	db *sqlx.DB
}

// NewTasks creates the tasks repository.
func NewTasks(db *sqlx.DB) *Tasks {
	return &Tasks{db: db}
}

// EnsureSeeded inserts the full kind set for the user in one statement.
// ON CONFLICT makes the seeding idempotent and all-or-nothing: a single
// multi-row INSERT either lands completely or not at all, so a partially
// seeded checklist is never observable.
func (r *Tasks) EnsureSeeded(ctx context.Context, id int64, kinds []model.TaskKind) error {
	if len(kinds) == 0 {
		return nil
	}
	values := make([]string, 0, len(kinds))
	args := make([]interface{}, 0, len(kinds)+1)
	args = append(args, id)
	for i, k := range kinds {
		values = append(values, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, string(k))
	}
	query := `INSERT INTO airdrop_tasks (telegram_id, task_kind) VALUES ` +
		strings.Join(values, ", ") +
		` ON CONFLICT (telegram_id, task_kind) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed tasks for %d: %w", id, err)
	}
	return nil
}

// ListByUser returns the user's task rows ordered by kind name.
func (r *Tasks) ListByUser(ctx context.Context, id int64) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.SelectContext(ctx, &tasks, `
		SELECT telegram_id, task_kind, completed
		FROM airdrop_tasks WHERE telegram_id = $1
		ORDER BY task_kind`, id)
	if err != nil {
		return nil, fmt.Errorf("list tasks for %d: %w", id, err)
	}
	return tasks, nil
}

// Complete marks the task row done. Returns false when it was already
// done; the conditional update is the only mutation path for completed.
func (r *Tasks) Complete(ctx context.Context, id int64, kind model.TaskKind) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE airdrop_tasks SET completed = TRUE
		WHERE telegram_id = $1 AND task_kind = $2 AND NOT completed`,
		id, string(kind))
	if err != nil {
		return false, fmt.Errorf("complete task %s for %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete task %s for %d: %w", kind, id, err)
	}
	return n == 1, nil
}

// CompletedTotal counts completed task rows across all users.
func (r *Tasks) CompletedTotal(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM airdrop_tasks WHERE completed`)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return n, nil
}

// Progress counts completed and total task rows for the user.
func (r *Tasks) Progress(ctx context.Context, id int64) (model.Progress, error) {
	var row struct {
		Completed int `db:"completed"`
		Total     int `db:"total"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT COUNT(*) FILTER (WHERE completed) AS completed,
		       COUNT(*)                          AS total
		FROM airdrop_tasks WHERE telegram_id = $1`, id)
	if err != nil {
		return model.Progress{}, fmt.Errorf("task progress for %d: %w", id, err)
	}
	return model.Progress{Completed: row.Completed, Total: row.Total}, nil
}
