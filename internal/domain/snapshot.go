package domain

import (
	"fmt"
	"math"
	"time"
)

// PositionSnapshot is the planetary state at the start of one cache bucket.
type PositionSnapshot struct {
	BucketStartMs int64 // unix ms of the bucket start
	Positions     PlanetaryPositions
}

// SolarDayKey identifies a cached solar day. Coordinates are rounded to four
// decimals (about 11 m) so equivalent requests share an entry.
type SolarDayKey struct {
	Date          string // YYYY-MM-DD, local
	Latitude      float64
	Longitude     float64
	OffsetSeconds int
}

// NewSolarDayKey builds a key for a local date, location and UTC offset.
func NewSolarDayKey(date time.Time, lat, lon float64, offset time.Duration) SolarDayKey {
	return SolarDayKey{
		Date:          date.Format("2006-01-02"),
		Latitude:      roundCoord(lat),
		Longitude:     roundCoord(lon),
		OffsetSeconds: int(offset / time.Second),
	}
}

// String returns "date|lat|lon|offset".
func (k SolarDayKey) String() string {
	return fmt.Sprintf("%s|%.4f|%.4f|%d", k.Date, k.Latitude, k.Longitude, k.OffsetSeconds)
}

func roundCoord(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// SearchOutcome distinguishes a successful search from an exhausted one.
type SearchOutcome string

const (
	OutcomeFound        SearchOutcome = "found"
	OutcomeNoCandidates SearchOutcome = "no_candidates"
)

// RunSummary is the persisted digest of one search run.
type RunSummary struct {
	RunID           string
	Date            string
	Latitude        float64
	Longitude       float64
	OffsetSeconds   int
	Window          string
	StrictMode      bool
	Outcome         SearchOutcome
	Attempts        int
	CandidateCount  int
	RejectionCount  int
	BestCandidateID *string
	BestScore       *float64
	BestInstant     *time.Time
	CreatedAt       time.Time
}
