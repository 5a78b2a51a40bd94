package specialpoint

import (
	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

const (
	minRealisticMonths = 5.0
	maxRealisticMonths = 10.5
)

// Nisheka estimates the conception point from Saturn, Gulika and the lagna.
// The gestation span in signs is the sign distance from Gulika to Saturn plus
// the distance from the ninth house to the lagna, with zero read as twelve.
func Nisheka(lagna, saturn, gulika float64) domain.Nisheka {
	lagnaSign := angle.SignIndex(lagna)
	ninth := angle.ModSign(lagnaSign + 8)

	diffA := angle.ModSign(angle.SignIndex(saturn) - angle.SignIndex(gulika))
	diffB := angle.ModSign(lagnaSign - ninth)

	signs := angle.ModSign(diffA + diffB)
	if signs == 0 {
		signs = 12
	}
	months := float64(signs)

	return domain.Nisheka{
		Longitude:       angle.Normalize(lagna - float64(signs)*30),
		GestationSigns:  signs,
		GestationMonths: months,
		Realistic:       months >= minRealisticMonths && months <= maxRealisticMonths,
	}
}
