// Package timeunit converts elapsed time since sunrise into ghatis and palas.
// One day is 60 ghatis or 3600 palas; one pala is exactly 24 seconds.
package timeunit

import (
	"math"
	"time"
)

const (
	// Pala is the length of one pala.
	Pala = 24 * time.Second
	// Ghati is the length of one ghati (60 palas).
	Ghati = 60 * Pala
	// Day is the reckoning day used for wraparound.
	Day = 24 * time.Hour

	PalasPerGhati = 60
	PalasPerDay   = 3600
)

// GhatiPala is an elapsed duration expressed in traditional units.
type GhatiPala struct {
	Ghatis     int     // floor(TotalPalas / 60)
	Palas      int     // floor(TotalPalas) mod 60
	TotalPalas float64 // sub-pala precision
}

// FractionalGhatis returns TotalPalas / 60.
func (g GhatiPala) FractionalGhatis() float64 {
	return g.TotalPalas / PalasPerGhati
}

// PalasInGhati returns the palas past the last whole ghati, with sub-pala precision.
func (g GhatiPala) PalasInGhati() float64 {
	return g.TotalPalas - float64(g.Ghatis*PalasPerGhati)
}

// ElapsedSinceSunrise returns instant - sunrise, adding 24h when negative so
// instants before the reference sunrise roll into the prior day's reckoning.
// Values past a full day are folded back into [0, 24h).
func ElapsedSinceSunrise(instant, sunrise time.Time) time.Duration {
	d := instant.Sub(sunrise)
	for d < 0 {
		d += Day
	}
	for d >= Day {
		d -= Day
	}
	return d
}

// ToGhatiPala converts an elapsed duration into ghatis and palas.
func ToGhatiPala(d time.Duration) GhatiPala {
	total := float64(d) / float64(Pala)
	whole := math.Floor(total)
	return GhatiPala{
		Ghatis:     int(whole) / PalasPerGhati,
		Palas:      int(whole) % PalasPerGhati,
		TotalPalas: total,
	}
}

// FromGhatiPala converts ghatis and palas back into a duration.
func FromGhatiPala(ghatis, palas int) time.Duration {
	return time.Duration(ghatis)*Ghati + time.Duration(palas)*Pala
}

// SegmentBoundary returns start + (span*index)/count. Multiplying before
// dividing keeps nanosecond precision; start + (span/count)*index compounds
// the truncation of span/count.
func SegmentBoundary(start time.Time, span time.Duration, index, count int) time.Time {
	return start.Add(span * time.Duration(index) / time.Duration(count))
}

// SegmentBoundaries splits [spanStart, spanEnd] into count equal segments and
// returns the count+1 boundaries, first and last included.
func SegmentBoundaries(spanStart, spanEnd time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	span := spanEnd.Sub(spanStart)
	out := make([]time.Time, count+1)
	for i := 0; i <= count; i++ {
		out[i] = SegmentBoundary(spanStart, span, i, count)
	}
	return out
}
