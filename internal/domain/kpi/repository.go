package kpi

import (
	"context"
	"time"
)

// Repository defines the interface for snapshot data access
type Repository interface {
	// UpsertSnapshot writes or replaces the row for the snapshot's
	// (window_from, window_to) pair and returns the assigned id.
	UpsertSnapshot(ctx context.Context, s *Snapshot) (int64, error)

	// ReplaceCategoryCounts atomically clears and rewrites a snapshot's
	// category rows.
	ReplaceCategoryCounts(ctx context.Context, snapshotID int64, counts map[string]int) error

	// GetSnapshots returns all snapshots with window_from in [from, to),
	// ascending by window_from.
	GetSnapshots(ctx context.Context, from, to time.Time) ([]*Snapshot, error)

	// GetLatestSnapshot returns the snapshot with the greatest window_from,
	// or nil if none exist.
	GetLatestSnapshot(ctx context.Context) (*Snapshot, error)

	// GetCategoryCounts returns the category rows joined across snapshots
	// whose window_from falls in [from, to).
	GetCategoryCounts(ctx context.Context, from, to time.Time) ([]*CategoryCount, error)
}
