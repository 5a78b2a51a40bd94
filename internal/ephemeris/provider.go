// Package ephemeris defines the positional-astronomy collaborator consumed by
// the rectification engine and ships a low-precision analytic implementation.
package ephemeris

import (
	"errors"
	"fmt"
	"time"

	"rectification-lab/internal/domain"
)

// ErrAstronomical is the sentinel for astronomical computation failures.
var ErrAstronomical = errors.New("astronomical computation failed")

// ErrNoSunrise is returned when the Sun does not cross the horizon on a date.
var ErrNoSunrise = errors.New("no sunrise or sunset on date")

// AstronomicalError wraps a failed computation with its inputs.
// errors.Is(err, ErrAstronomical) holds for every AstronomicalError.
type AstronomicalError struct {
	Op   string
	Date time.Time
	Lat  float64
	Lon  float64
	Err  error
}

func (e *AstronomicalError) Error() string {
	return fmt.Sprintf("%s at %s (lat=%.4f, lon=%.4f): %v",
		e.Op, e.Date.Format("2006-01-02"), e.Lat, e.Lon, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AstronomicalError) Unwrap() error { return e.Err }

// Is matches ErrAstronomical.
func (e *AstronomicalError) Is(target error) bool { return target == ErrAstronomical }

// Provider computes positions for instants and locations.
// Implementations must be safe for concurrent use.
type Provider interface {
	// SiderealAscendant returns the sidereal longitude rising at t for the location.
	SiderealAscendant(t time.Time, lat, lon float64) (float64, error)

	// PlanetaryLongitudes returns sidereal longitudes of the nine grahas at t.
	PlanetaryLongitudes(t time.Time) (domain.PlanetaryPositions, error)

	// SunriseSunset returns the sunrise and sunset on the local calendar date.
	SunriseSunset(date time.Time, lat, lon float64, offset time.Duration) (sunrise, sunset time.Time, err error)
}

// SolarDay resolves sunrise, sunset and the following day's sunrise.
func SolarDay(p Provider, date time.Time, lat, lon float64, offset time.Duration) (domain.SolarDay, error) {
	sunrise, sunset, err := p.SunriseSunset(date, lat, lon, offset)
	if err != nil {
		return domain.SolarDay{}, err
	}
	next, _, err := p.SunriseSunset(date.AddDate(0, 0, 1), lat, lon, offset)
	if err != nil {
		return domain.SolarDay{}, err
	}
	day := domain.SolarDay{Sunrise: sunrise, Sunset: sunset, NextSunrise: next}
	if err := day.Validate(); err != nil {
		return domain.SolarDay{}, &AstronomicalError{Op: "solar day", Date: date, Lat: lat, Lon: lon, Err: err}
	}
	return day, nil
}
