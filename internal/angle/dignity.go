package angle

import "rectification-lab/internal/domain"

// Dignity is the classical placement strength of a planet in a sign.
type Dignity int

// Dignities from weakest to strongest.
const (
	Debilitated Dignity = iota
	Neutral
	OwnSign
	Exalted
)

var exaltationSign = map[domain.Planet]int{
	domain.Sun:     0,  // Aries
	domain.Moon:    1,  // Taurus
	domain.Mars:    9,  // Capricorn
	domain.Mercury: 5,  // Virgo
	domain.Jupiter: 3,  // Cancer
	domain.Venus:   11, // Pisces
	domain.Saturn:  6,  // Libra
	domain.Rahu:    1,  // Taurus
	domain.Ketu:    7,  // Scorpio
}

// PlanetDignity returns the dignity of planet placed in sign.
func PlanetDignity(planet domain.Planet, sign int) Dignity {
	sign = ModSign(sign)
	if ex, ok := exaltationSign[planet]; ok {
		if ex == sign {
			return Exalted
		}
		if ModSign(ex+6) == sign {
			return Debilitated
		}
	}
	if SignLord(sign) == planet {
		return OwnSign
	}
	return Neutral
}
