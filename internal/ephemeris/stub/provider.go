// Package stub provides a deterministic ephemeris for tests.
package stub

import (
	"sync/atomic"
	"time"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
)

// SiderealDay is the period of one full turn of the ascendant in the stub.
const SiderealDay = 23*time.Hour + 56*time.Minute + 4*time.Second

// Provider is a linear-motion ephemeris. The ascendant turns once per sidereal
// day from AscendantAtEpoch; each planet moves at a fixed daily rate from its
// longitude at Epoch. Sunrise and sunset are fixed local clock times.
type Provider struct {
	Epoch             time.Time
	AscendantAtEpoch  float64
	Longitudes        domain.PlanetaryPositions // at Epoch
	DailyMotion       map[domain.Planet]float64 // degrees per day
	SunriseClock      time.Duration             // offset from local midnight
	SunsetClock       time.Duration
	SunriseErr        error // returned from SunriseSunset when set
	AscendantOverride func(t time.Time) float64

	longitudeCalls atomic.Int64
	ascendantCalls atomic.Int64
	sunriseCalls   atomic.Int64
}

// New creates a stub with realistic daily motions and a 06:00/18:00 day.
func New(epoch time.Time) *Provider {
	return &Provider{
		Epoch:            epoch,
		AscendantAtEpoch: 0,
		Longitudes: domain.PlanetaryPositions{
			domain.Sun:     10,
			domain.Moon:    100,
			domain.Mars:    200,
			domain.Mercury: 20,
			domain.Jupiter: 50,
			domain.Venus:   340,
			domain.Saturn:  300,
			domain.Rahu:    15,
			domain.Ketu:    195,
		},
		DailyMotion: map[domain.Planet]float64{
			domain.Sun:     0.9856,
			domain.Moon:    13.176,
			domain.Mars:    0.524,
			domain.Mercury: 1.383,
			domain.Jupiter: 0.083,
			domain.Venus:   1.2,
			domain.Saturn:  0.033,
			domain.Rahu:    -0.053,
			domain.Ketu:    -0.053,
		},
		SunriseClock: 6 * time.Hour,
		SunsetClock:  18 * time.Hour,
	}
}

// Compile-time interface check.
var _ ephemeris.Provider = (*Provider)(nil)

// SiderealAscendant returns the linear ascendant at t.
func (p *Provider) SiderealAscendant(t time.Time, lat, lon float64) (float64, error) {
	p.ascendantCalls.Add(1)
	if p.AscendantOverride != nil {
		return angle.Normalize(p.AscendantOverride(t)), nil
	}
	turns := float64(t.Sub(p.Epoch)) / float64(SiderealDay)
	return angle.Normalize(p.AscendantAtEpoch + 360*turns), nil
}

// PlanetaryLongitudes returns linearly advanced longitudes at t.
func (p *Provider) PlanetaryLongitudes(t time.Time) (domain.PlanetaryPositions, error) {
	p.longitudeCalls.Add(1)
	days := t.Sub(p.Epoch).Hours() / 24
	out := make(domain.PlanetaryPositions, len(p.Longitudes))
	for planet, lon := range p.Longitudes {
		out[planet] = angle.Normalize(lon + p.DailyMotion[planet]*days)
	}
	out[domain.Ketu] = angle.Normalize(out[domain.Rahu] + 180)
	return out, nil
}

// SunriseSunset returns the configured clock times on the local date.
func (p *Provider) SunriseSunset(date time.Time, lat, lon float64, offset time.Duration) (time.Time, time.Time, error) {
	p.sunriseCalls.Add(1)
	if p.SunriseErr != nil {
		return time.Time{}, time.Time{}, p.SunriseErr
	}
	loc := time.FixedZone("", int(offset/time.Second))
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return midnight.Add(p.SunriseClock), midnight.Add(p.SunsetClock), nil
}

// LongitudeCalls returns how many times PlanetaryLongitudes was called.
func (p *Provider) LongitudeCalls() int64 { return p.longitudeCalls.Load() }

// AscendantCalls returns how many times SiderealAscendant was called.
func (p *Provider) AscendantCalls() int64 { return p.ascendantCalls.Load() }

// SunriseCalls returns how many times SunriseSunset was called.
func (p *Provider) SunriseCalls() int64 { return p.sunriseCalls.Load() }
