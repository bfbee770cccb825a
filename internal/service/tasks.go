package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/internal/model"
)

// TaskStore is the airdrop_tasks surface the tracker needs.
type TaskStore interface {
	EnsureSeeded(ctx context.Context, id int64, kinds []model.TaskKind) error
	ListByUser(ctx context.Context, id int64) ([]model.Task, error)
	Complete(ctx context.Context, id int64, kind model.TaskKind) (bool, error)
	Progress(ctx context.Context, id int64) (model.Progress, error)
	CompletedTotal(ctx context.Context) (int64, error)
}

// Tasks is the task tracker.
type Tasks struct {
	store TaskStore
	rec   metrics.Recorder
}

// NewTasks creates the tracker service.
func NewTasks(store TaskStore, rec metrics.Recorder) *Tasks {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &Tasks{store: store, rec: rec}
}

// EnsureTasks seeds the checklist on first access and returns the rows in
// display order. A row count that differs from the fixed kind set after
// seeding is an invariant violation, not something to top up silently.
func (s *Tasks) EnsureTasks(ctx context.Context, id int64) ([]model.Task, error) {
	if err := s.store.EnsureSeeded(ctx, id, model.TaskKinds); err != nil {
		return nil, err
	}
	rows, err := s.store.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(model.TaskKinds) {
		logger.Error(ctx, "service.tasks", "tasks.seed_mismatch",
			slog.Int64("user_id", id),
			slog.Int("tasks_done", len(rows)),
			slog.Int("tasks_total", len(model.TaskKinds)),
		)
		return nil, fmt.Errorf("%w: %d task rows for user %d, want %d",
			model.ErrInvariant, len(rows), id, len(model.TaskKinds))
	}

	byKind := make(map[model.TaskKind]model.Task, len(rows))
	for _, t := range rows {
		byKind[t.Kind] = t
	}
	ordered := make([]model.Task, 0, len(model.TaskKinds))
	for _, k := range model.TaskKinds {
		ordered = append(ordered, byKind[k])
	}
	return ordered, nil
}

// Complete marks a task done. The store-level conditional update makes
// repeated calls report already-done with no side effects.
func (s *Tasks) Complete(ctx context.Context, id int64, kind model.TaskKind) (model.CompleteOutcome, error) {
	if !kind.Valid() {
		return model.CompleteAlreadyDone, fmt.Errorf("unknown task kind %q", kind)
	}
	newly, err := s.store.Complete(ctx, id, kind)
	if err != nil {
		return model.CompleteAlreadyDone, err
	}
	if !newly {
		return model.CompleteAlreadyDone, nil
	}
	s.rec.RecordTaskCompleted(string(kind))
	logger.Info(ctx, "service.tasks", "task.completed",
		slog.Int64("user_id", id),
		slog.String("task_kind", string(kind)),
	)
	return model.CompleteNewlyDone, nil
}

// Progress reports the checklist completion counters.
func (s *Tasks) Progress(ctx context.Context, id int64) (model.Progress, error) {
	return s.store.Progress(ctx, id)
}

// CompletedTotal reports program-wide completed task count.
func (s *Tasks) CompletedTotal(ctx context.Context) (int64, error) {
	return s.store.CompletedTotal(ctx)
}

// AllComplete reports whether every seeded task is done.
func (s *Tasks) AllComplete(ctx context.Context, id int64) (bool, error) {
	p, err := s.store.Progress(ctx, id)
	if err != nil {
		return false, err
	}
	return p.AllDone(), nil
}
