package domain

import "fmt"

// Planet identifies one of the nine grahas.
type Planet string

// Planet constants.
const (
	Sun     Planet = "sun"
	Moon    Planet = "moon"
	Mars    Planet = "mars"
	Mercury Planet = "mercury"
	Jupiter Planet = "jupiter"
	Venus   Planet = "venus"
	Saturn  Planet = "saturn"
	Rahu    Planet = "rahu"
	Ketu    Planet = "ketu"
)

// Planets lists all nine grahas in canonical order.
var Planets = []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// WeekdayRulers lists the seven classical planets in weekday order (Sunday first).
var WeekdayRulers = []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// PlanetaryPositions maps each graha to its sidereal longitude in degrees.
// Ketu is always Rahu + 180.
type PlanetaryPositions map[Planet]float64

// Longitude returns the longitude of p, or false if absent.
func (p PlanetaryPositions) Longitude(planet Planet) (float64, bool) {
	v, ok := p[planet]
	return v, ok
}

// Validate checks that every graha is present.
func (p PlanetaryPositions) Validate() error {
	for _, planet := range Planets {
		if _, ok := p[planet]; !ok {
			return fmt.Errorf("%w: missing longitude for %s", ErrInvalidInput, planet)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (p PlanetaryPositions) Clone() PlanetaryPositions {
	out := make(PlanetaryPositions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
