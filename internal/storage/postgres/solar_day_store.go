package postgres

import (
	"context"
	"fmt"
	"time"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/storage"
)

// SolarDayStore implements storage.SolarDayStore using PostgreSQL.
type SolarDayStore struct {
	pool *Pool
}

// NewSolarDayStore creates a new SolarDayStore.
func NewSolarDayStore(pool *Pool) *SolarDayStore {
	return &SolarDayStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SolarDayStore = (*SolarDayStore)(nil)

// Insert adds a solar day. Returns ErrDuplicateKey if the key exists.
func (s *SolarDayStore) Insert(ctx context.Context, key domain.SolarDayKey, day domain.SolarDay) error {
	if key.Date == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO solar_days (
			local_date, latitude, longitude, offset_seconds,
			sunrise, sunset, next_sunrise
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		key.Date,
		key.Latitude,
		key.Longitude,
		key.OffsetSeconds,
		day.Sunrise.UTC(),
		day.Sunset.UTC(),
		day.NextSunrise.UTC(),
	)
	observe("insert_solar_day", start, err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert solar day: %w", err)
	}
	return nil
}

// Get retrieves a solar day. Returns ErrNotFound if not exists.
func (s *SolarDayStore) Get(ctx context.Context, key domain.SolarDayKey) (*domain.SolarDay, error) {
	query := `
		SELECT sunrise, sunset, next_sunrise
		FROM solar_days
		WHERE local_date = $1 AND latitude = $2 AND longitude = $3 AND offset_seconds = $4
	`

	var day domain.SolarDay
	start := time.Now()
	err := s.pool.QueryRow(ctx, query, key.Date, key.Latitude, key.Longitude, key.OffsetSeconds).
		Scan(&day.Sunrise, &day.Sunset, &day.NextSunrise)
	observe("get_solar_day", start, err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get solar day: %w", err)
	}

	day = day.In(time.FixedZone("", key.OffsetSeconds))
	return &day, nil
}
