package database

import (
	"context"
	"time"
)

type LoadRepository interface {
	RecordLoad(ctx context.Context, load PageLoad) (string, error)
	GetRecentLoads(ctx context.Context, limit int) ([]PageLoad, error)
	GetLoadStats(ctx context.Context) (LoadStats, error)
	PruneLoadsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
