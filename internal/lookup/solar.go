package lookup

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/observability"
	"rectification-lab/internal/storage"
	"rectification-lab/internal/storage/memory"
)

// SolarDays resolves sunrise, sunset and next sunrise through a store.
// Provider failures are returned unchanged so astronomical errors surface.
type SolarDays struct {
	provider ephemeris.Provider
	store    storage.SolarDayStore
	log      *zap.Logger
}

// NewSolarDays creates a resolver. A nil store uses an in-memory one.
func NewSolarDays(provider ephemeris.Provider, store storage.SolarDayStore, logger *zap.Logger) *SolarDays {
	if store == nil {
		store = memory.NewSolarDayStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolarDays{provider: provider, store: store, log: logger.Named("solar_days")}
}

// Get returns the solar day for a local date at a location, expressed in the
// fixed zone of offset regardless of the zone the store hands back.
func (s *SolarDays) Get(ctx context.Context, date time.Time, lat, lon float64, offset time.Duration) (domain.SolarDay, error) {
	key := domain.NewSolarDayKey(date, lat, lon, offset)
	loc := time.FixedZone("", key.OffsetSeconds)

	day, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		observability.RecordCacheLookup("solar_days", TierStore)
		return day.In(loc), nil
	case !errors.Is(err, storage.ErrNotFound):
		s.log.Warn("solar day store read failed", zap.String("key", key.String()), zap.Error(err))
	}

	observability.RecordCacheLookup("solar_days", TierProvider)
	start := time.Now()
	computed, err := ephemeris.SolarDay(s.provider, date, lat, lon, offset)
	observability.RecordEphemerisCall("sunrise_sunset", time.Since(start), err)
	if err != nil {
		return domain.SolarDay{}, err
	}

	if err := s.store.Insert(ctx, key, computed); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.log.Warn("solar day store write failed", zap.String("key", key.String()), zap.Error(err))
	}
	return computed.In(loc), nil
}
