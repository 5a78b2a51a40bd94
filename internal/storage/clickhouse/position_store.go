package clickhouse

import (
	"context"
	"fmt"
	"time"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/storage"
)

// PositionStore implements storage.PositionStore using ClickHouse.
type PositionStore struct {
	conn *Conn
}

// NewPositionStore creates a new PositionStore.
func NewPositionStore(conn *Conn) *PositionStore {
	return &PositionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

const positionColumns = `bucket_start_ms, sun, moon, mars, mercury, jupiter, venus, saturn, rahu, ketu`

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate bucket.
func (s *PositionStore) InsertBulk(ctx context.Context, snapshots []*domain.PositionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.BucketStartMs < 0 {
			return storage.ErrInvalidInput
		}
		if err := snap.Positions.Validate(); err != nil {
			return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
		}
		if _, exists := seen[snap.BucketStartMs]; exists {
			return storage.ErrDuplicateKey
		}
		seen[snap.BucketStartMs] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows first.
	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.BucketStartMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO planet_positions (`+positionColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		p := snap.Positions
		err = batch.Append(
			uint64(snap.BucketStartMs),
			p[domain.Sun], p[domain.Moon], p[domain.Mars], p[domain.Mercury],
			p[domain.Jupiter], p[domain.Venus], p[domain.Saturn], p[domain.Rahu], p[domain.Ketu],
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	start := time.Now()
	err = batch.Send()
	observe("insert_positions", start, err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Get retrieves the snapshot for a bucket. Returns ErrNotFound if not exists.
func (s *PositionStore) Get(ctx context.Context, bucketStartMs int64) (*domain.PositionSnapshot, error) {
	if bucketStartMs < 0 {
		return nil, storage.ErrNotFound
	}

	query := `SELECT ` + positionColumns + ` FROM planet_positions FINAL
		WHERE bucket_start_ms = ?
		LIMIT 1`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, uint64(bucketStartMs))
	observe("get_position", start, err)
	if err != nil {
		return nil, fmt.Errorf("query position: %w", err)
	}
	defer rows.Close()

	snaps, err := scanPositions(rows)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, storage.ErrNotFound
	}
	return snaps[0], nil
}

// GetByTimeRange retrieves snapshots within [start, end] (inclusive), ordered ASC.
func (s *PositionStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.PositionSnapshot, error) {
	if start < 0 {
		start = 0
	}
	if end < start {
		return nil, nil
	}

	query := `SELECT ` + positionColumns + ` FROM planet_positions FINAL
		WHERE bucket_start_ms >= ? AND bucket_start_ms <= ?
		ORDER BY bucket_start_ms ASC`

	begin := time.Now()
	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	observe("range_positions", begin, err)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// exists checks if a snapshot for the bucket exists.
func (s *PositionStore) exists(ctx context.Context, bucketStartMs int64) (bool, error) {
	query := `SELECT count(*) FROM planet_positions WHERE bucket_start_ms = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, uint64(bucketStartMs)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanPositions scans multiple rows.
func scanPositions(rows chRows) ([]*domain.PositionSnapshot, error) {
	var snaps []*domain.PositionSnapshot

	for rows.Next() {
		var bucket uint64
		var sun, moon, mars, mercury, jupiter, venus, saturn, rahu, ketu float64

		if err := rows.Scan(&bucket, &sun, &moon, &mars, &mercury, &jupiter, &venus, &saturn, &rahu, &ketu); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		snaps = append(snaps, &domain.PositionSnapshot{
			BucketStartMs: int64(bucket),
			Positions: domain.PlanetaryPositions{
				domain.Sun:     sun,
				domain.Moon:    moon,
				domain.Mars:    mars,
				domain.Mercury: mercury,
				domain.Jupiter: jupiter,
				domain.Venus:   venus,
				domain.Saturn:  saturn,
				domain.Rahu:    rahu,
				domain.Ketu:    ketu,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return snaps, nil
}
