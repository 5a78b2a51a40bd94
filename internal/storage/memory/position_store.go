package memory

import (
	"context"
	"sort"
	"sync"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/storage"
)

// PositionStore is an in-memory implementation of storage.PositionStore.
type PositionStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.PositionSnapshot // keyed by bucket_start_ms
}

// NewPositionStore creates a new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{
		data: make(map[int64]*domain.PositionSnapshot),
	}
}

// Compile-time interface check.
var _ storage.PositionStore = (*PositionStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate.
func (s *PositionStore) InsertBulk(_ context.Context, snapshots []*domain.PositionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[int64]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.Positions == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[snap.BucketStartMs]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[snap.BucketStartMs]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[snap.BucketStartMs] = struct{}{}
	}

	for _, snap := range snapshots {
		s.data[snap.BucketStartMs] = copySnapshot(snap)
	}
	return nil
}

// Get retrieves the snapshot for a bucket. Returns ErrNotFound if not exists.
func (s *PositionStore) Get(_ context.Context, bucketStartMs int64) (*domain.PositionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[bucketStartMs]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(snap), nil
}

// GetByTimeRange retrieves snapshots within [start, end] (inclusive), ordered ASC.
func (s *PositionStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.PositionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PositionSnapshot
	for k, snap := range s.data {
		if k >= start && k <= end {
			result = append(result, copySnapshot(snap))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].BucketStartMs < result[j].BucketStartMs
	})
	return result, nil
}

func copySnapshot(snap *domain.PositionSnapshot) *domain.PositionSnapshot {
	return &domain.PositionSnapshot{
		BucketStartMs: snap.BucketStartMs,
		Positions:     snap.Positions.Clone(),
	}
}
