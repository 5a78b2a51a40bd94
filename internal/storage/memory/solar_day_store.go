package memory

import (
	"context"
	"sync"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/storage"
)

// SolarDayStore is an in-memory implementation of storage.SolarDayStore.
type SolarDayStore struct {
	mu   sync.RWMutex
	data map[domain.SolarDayKey]domain.SolarDay
}

// NewSolarDayStore creates a new in-memory solar day store.
func NewSolarDayStore() *SolarDayStore {
	return &SolarDayStore{
		data: make(map[domain.SolarDayKey]domain.SolarDay),
	}
}

// Compile-time interface check.
var _ storage.SolarDayStore = (*SolarDayStore)(nil)

// Insert adds a solar day. Returns ErrDuplicateKey if the key exists.
func (s *SolarDayStore) Insert(_ context.Context, key domain.SolarDayKey, day domain.SolarDay) error {
	if key.Date == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[key] = day
	return nil
}

// Get retrieves a solar day. Returns ErrNotFound if not exists.
func (s *SolarDayStore) Get(_ context.Context, key domain.SolarDayKey) (*domain.SolarDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day, exists := s.data[key]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return &day, nil
}
