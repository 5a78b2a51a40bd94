// Package specialpoint computes the classical sensitive points used to verify a
// birth instant: Gulika, Madhya and Sphuta Pranapada, the special lagnas and
// the Nisheka (conception) point. Every function is pure and deterministic.
package specialpoint

import (
	"fmt"
	"time"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/timeunit"
)

const (
	segmentsPerSpan = 8
	rulerCycle      = 7
	saturnIndex     = 6 // index of Saturn in domain.WeekdayRulers
	nightShift      = 4 // the night sequence starts four rulers after the day's
)

// AscendantFunc returns the ascendant longitude at an instant.
type AscendantFunc func(t time.Time) (float64, error)

// SaturnSegment returns the 0-based eighth ruled by Saturn for a sequence that
// starts at ruler startIndex in weekday order.
func SaturnSegment(startIndex int) int {
	return ((saturnIndex-startIndex)%rulerCycle + rulerCycle) % rulerCycle
}

// SegmentRuler returns the ruler of a 0-based eighth for a sequence starting at
// startIndex. The eighth segment has no ruler.
func SegmentRuler(startIndex, segment int) (domain.Planet, bool) {
	if segment < 0 || segment >= rulerCycle {
		return "", false
	}
	return domain.WeekdayRulers[(startIndex+segment)%rulerCycle], true
}

// GulikaTimes returns the start instants of the Saturn-ruled eighths of the day
// (sunrise to sunset) and night (sunset to next sunrise) for the weekday.
func GulikaTimes(day domain.SolarDay, weekday time.Weekday) (dayTime, nightTime time.Time, daySeg, nightSeg int) {
	dayStart := int(weekday)
	nightStart := (dayStart + nightShift) % rulerCycle

	daySeg = SaturnSegment(dayStart)
	nightSeg = SaturnSegment(nightStart)

	dayTime = timeunit.SegmentBoundary(day.Sunrise, day.DaySpan(), daySeg, segmentsPerSpan)
	nightTime = timeunit.SegmentBoundary(day.Sunset, day.NightSpan(), nightSeg, segmentsPerSpan)
	return dayTime, nightTime, daySeg, nightSeg
}

// Gulika computes the day and night Gulika longitudes as the ascendant at the
// start of each Saturn-ruled eighth. The weekday is that of the sunrise in
// loc, the birth place's local zone, whatever zone day was stored in.
func Gulika(day domain.SolarDay, loc *time.Location, ascendant AscendantFunc) (domain.GulikaPoints, error) {
	dayTime, nightTime, daySeg, nightSeg := GulikaTimes(day, day.Sunrise.In(loc).Weekday())

	dayLon, err := ascendant(dayTime)
	if err != nil {
		return domain.GulikaPoints{}, fmt.Errorf("day gulika ascendant: %w", err)
	}
	nightLon, err := ascendant(nightTime)
	if err != nil {
		return domain.GulikaPoints{}, fmt.Errorf("night gulika ascendant: %w", err)
	}

	return domain.GulikaPoints{
		DayLongitude:   dayLon,
		DayTime:        dayTime,
		DaySegment:     daySeg,
		NightLongitude: nightLon,
		NightTime:      nightTime,
		NightSegment:   nightSeg,
	}, nil
}

// IsDayBirth reports whether an instant falls between sunrise and sunset.
func IsDayBirth(day domain.SolarDay, instant time.Time) bool {
	elapsed := timeunit.ElapsedSinceSunrise(instant, day.Sunrise)
	return elapsed < day.DaySpan()
}

// ActiveGulika selects the day or night Gulika for an instant.
func ActiveGulika(g domain.GulikaPoints, isDay bool) float64 {
	if isDay {
		return g.DayLongitude
	}
	return g.NightLongitude
}
