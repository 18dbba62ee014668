package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/thinkers-table/app/database"
)

type PruneLoadsTask struct {
	Task
	retention time.Duration
	loadRepo  database.LoadRepository
}

func NewPruneLoadsTask(retention time.Duration, loadRepo database.LoadRepository) *PruneLoadsTask {
	return &PruneLoadsTask{
		Task:      NewTask(TaskTypePruneLoads),
		retention: retention,
		loadRepo:  loadRepo,
	}
}

func (t *PruneLoadsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().Add(-t.retention)

	deleted, err := t.loadRepo.PruneLoadsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune page loads: %w", err)
	}

	if deleted > 0 {
		slog.Info("Task completed",
			"type", string(t.GetType()),
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339),
			"duration", t.GetDuration())
	} else {
		slog.Debug("No page loads to prune", "cutoff", cutoff.Format(time.RFC3339))
	}

	return nil
}
