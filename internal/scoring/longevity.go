package scoring

import (
	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

// Longevity bands in years.
const (
	ShortLife  = 32.0
	MiddleLife = 64.0
	LongLife   = 96.0
)

// ThreeBandLongevity places the native in the short, middle or long span from
// the dignities of the lagna lord and the eighth lord.
type ThreeBandLongevity struct{}

// Compile-time interface check.
var _ LongevityEstimator = ThreeBandLongevity{}

// Longevity returns 32, 64 or 96 years.
func (ThreeBandLongevity) Longevity(chart Chart) float64 {
	points := lordPoints(chart, chart.HouseLord(1)) + lordPoints(chart, chart.HouseLord(8))
	switch {
	case points >= 3:
		return LongLife
	case points >= 2:
		return MiddleLife
	default:
		return ShortLife
	}
}

// lordPoints scores a lord's placement: 2 for own or exalted, 1 neutral, 0 debilitated.
func lordPoints(chart Chart, lord domain.Planet) int {
	lon, ok := chart.Positions[lord]
	if !ok {
		return 1
	}
	switch angle.PlanetDignity(lord, angle.SignIndex(lon)) {
	case angle.Exalted, angle.OwnSign:
		return 2
	case angle.Debilitated:
		return 0
	default:
		return 1
	}
}
