package scoring

import (
	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

// Dignity strengths.
const (
	StrengthExalted     = 100.0
	StrengthOwnSign     = 80.0
	StrengthNeutral     = 50.0
	StrengthDebilitated = 10.0
)

// DignityStrength scores each planet by its sign dignity alone. It stands in
// for the six-fold strength, which needs aspects, motion and house cusps.
type DignityStrength struct{}

// Compile-time interface check.
var _ StrengthCalculator = DignityStrength{}

// Strengths returns a strength for every planet present in the chart.
func (DignityStrength) Strengths(chart Chart) map[domain.Planet]float64 {
	out := make(map[domain.Planet]float64, len(chart.Positions))
	for planet, lon := range chart.Positions {
		out[planet] = dignityStrength(angle.PlanetDignity(planet, angle.SignIndex(lon)))
	}
	return out
}

func dignityStrength(d angle.Dignity) float64 {
	switch d {
	case angle.Exalted:
		return StrengthExalted
	case angle.OwnSign:
		return StrengthOwnSign
	case angle.Debilitated:
		return StrengthDebilitated
	default:
		return StrengthNeutral
	}
}
