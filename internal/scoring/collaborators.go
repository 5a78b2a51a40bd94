// Package scoring blends the hard-filter verification score with corroborating
// evidence: planetary strength, longevity, life events and physical traits.
// The strength and longevity models are best-effort domain heuristics.
package scoring

import (
	"time"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

// Chart is the minimal natal chart the collaborators read.
type Chart struct {
	Birth     time.Time
	Lagna     float64
	Positions domain.PlanetaryPositions
}

// ChartFor builds a Chart from a candidate.
func ChartFor(c domain.Candidate) Chart {
	return Chart{Birth: c.Instant, Lagna: c.Lagna, Positions: c.Positions}
}

// LagnaSign returns the 0-based sign of the ascendant.
func (c Chart) LagnaSign() int { return angle.SignIndex(c.Lagna) }

// HouseLord returns the lord of the whole-sign house (1-based) from the lagna.
func (c Chart) HouseLord(house int) domain.Planet {
	return angle.SignLord(c.LagnaSign() + house - 1)
}

// StrengthCalculator returns a 0-100 strength per planet. Pure.
type StrengthCalculator interface {
	Strengths(chart Chart) map[domain.Planet]float64
}

// LongevityEstimator returns an expected lifespan in years, >= 0. Pure.
type LongevityEstimator interface {
	Longevity(chart Chart) float64
}

// DashaCalculator returns the mahadasha sequence from birth. Pure.
type DashaCalculator interface {
	Periods(moon float64, birth time.Time) []DashaPeriod
}
