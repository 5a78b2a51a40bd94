package domain

import (
	"fmt"
	"time"
)

// SolarDay holds the sunrise/sunset pair for a date plus the following sunrise.
type SolarDay struct {
	Sunrise     time.Time
	Sunset      time.Time
	NextSunrise time.Time
}

// DaySpan returns sunrise to sunset.
func (s SolarDay) DaySpan() time.Duration { return s.Sunset.Sub(s.Sunrise) }

// NightSpan returns sunset to the next sunrise.
func (s SolarDay) NightSpan() time.Duration { return s.NextSunrise.Sub(s.Sunset) }

// In returns the same instants expressed in loc.
func (s SolarDay) In(loc *time.Location) SolarDay {
	return SolarDay{
		Sunrise:     s.Sunrise.In(loc),
		Sunset:      s.Sunset.In(loc),
		NextSunrise: s.NextSunrise.In(loc),
	}
}

// Validate checks ordering.
func (s SolarDay) Validate() error {
	if !s.Sunrise.Before(s.Sunset) || !s.Sunset.Before(s.NextSunrise) {
		return fmt.Errorf("%w: solar day out of order (%s, %s, %s)",
			ErrInvalidInput, s.Sunrise, s.Sunset, s.NextSunrise)
	}
	return nil
}
