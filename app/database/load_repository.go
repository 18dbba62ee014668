package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const MaxRecentLoads = 500

var _ LoadRepository = (*PageLoadRepository)(nil)

// PageLoadRepository stores one row per rendered homepage. Timestamps are
// kept as unix milliseconds.
type PageLoadRepository struct {
	db *DB
}

func NewPageLoadRepository(db *DB) *PageLoadRepository {
	return &PageLoadRepository{db: db}
}

// RecordLoad inserts a load, assigning an ID and creation time when missing
func (r *PageLoadRepository) RecordLoad(ctx context.Context, load PageLoad) (string, error) {
	if load.ID == "" {
		load.ID = uuid.New().String()
	}
	if load.CreatedAt.IsZero() {
		load.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO page_loads (id, source, episode_count, latest_title, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, load.ID, load.Source, load.EpisodeCount, load.LatestTitle, load.Error,
		load.DurationMs, load.CreatedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to record page load: %w", err)
	}

	return load.ID, nil
}

// GetRecentLoads returns the newest loads first
func (r *PageLoadRepository) GetRecentLoads(ctx context.Context, limit int) ([]PageLoad, error) {
	if limit <= 0 || limit > MaxRecentLoads {
		limit = MaxRecentLoads
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, episode_count, latest_title, error, duration_ms, created_at
		FROM page_loads
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent loads: %w", err)
	}
	defer rows.Close()

	loads := []PageLoad{}
	for rows.Next() {
		var load PageLoad
		var createdAt int64
		err := rows.Scan(
			&load.ID, &load.Source, &load.EpisodeCount, &load.LatestTitle,
			&load.Error, &load.DurationMs, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page load row: %w", err)
		}
		load.CreatedAt = time.UnixMilli(createdAt)
		loads = append(loads, load)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page load rows: %w", err)
	}

	return loads, nil
}

func (r *PageLoadRepository) GetLoadStats(ctx context.Context) (LoadStats, error) {
	var stats LoadStats
	var fallback sql.NullInt64
	var lastLoad sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(CASE WHEN source = 'fallback' THEN 1 ELSE 0 END), MAX(created_at)
		FROM page_loads
	`).Scan(&stats.Total, &fallback, &lastLoad)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to get load stats: %w", err)
	}

	stats.Fallback = int(fallback.Int64)
	if lastLoad.Valid {
		t := time.UnixMilli(lastLoad.Int64)
		stats.LastLoadAt = &t
	}

	return stats, nil
}

// PruneLoadsBefore deletes loads created before cutoff and returns how many were removed
func (r *PageLoadRepository) PruneLoadsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM page_loads WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune page loads: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned page loads: %w", err)
	}

	return deleted, nil
}
