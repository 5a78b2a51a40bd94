package storage

import (
	"context"

	"rectification-lab/internal/domain"
)

// PositionStore provides access to planetary position snapshots keyed by
// cache bucket start.
type PositionStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate bucket.
	InsertBulk(ctx context.Context, snapshots []*domain.PositionSnapshot) error

	// Get retrieves the snapshot for a bucket. Returns ErrNotFound if not exists.
	Get(ctx context.Context, bucketStartMs int64) (*domain.PositionSnapshot, error)

	// GetByTimeRange retrieves snapshots with bucket start in [start, end] (inclusive), ordered ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.PositionSnapshot, error)
}

// SolarDayStore provides access to cached sunrise/sunset triples.
type SolarDayStore interface {
	// Insert adds a solar day. Returns ErrDuplicateKey if the key exists.
	Insert(ctx context.Context, key domain.SolarDayKey, day domain.SolarDay) error

	// Get retrieves a solar day. Returns ErrNotFound if not exists.
	Get(ctx context.Context, key domain.SolarDayKey) (*domain.SolarDay, error)
}

// RunStore provides access to search run summaries.
type RunStore interface {
	// Insert adds a run summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.RunSummary) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunSummary, error)

	// GetByDate retrieves all runs for a local birth date, ordered by created_at ASC.
	GetByDate(ctx context.Context, date string) ([]*domain.RunSummary, error)
}
