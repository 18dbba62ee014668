package database

import (
	"time"
)

type PageLoad struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"` // live or fallback
	EpisodeCount int       `json:"episode_count"`
	LatestTitle  string    `json:"latest_title"`
	Error        string    `json:"error,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoadStats struct {
	Total      int        `json:"total"`
	Fallback   int        `json:"fallback"`
	LastLoadAt *time.Time `json:"last_load_at,omitempty"`
}
