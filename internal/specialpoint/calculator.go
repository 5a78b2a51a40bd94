package specialpoint

import (
	"time"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/timeunit"
)

// Compute derives every special point for one instant. gulika is computed once
// per date by Gulika and shared across instants.
func Compute(day domain.SolarDay, gulika domain.GulikaPoints, instant time.Time, lagna float64, pos domain.PlanetaryPositions) domain.SpecialPoints {
	elapsed := timeunit.ElapsedSinceSunrise(instant, day.Sunrise)
	gp := timeunit.ToGhatiPala(elapsed)
	sun := pos[domain.Sun]

	isDay := elapsed < day.DaySpan()
	active := ActiveGulika(gulika, isDay)

	return domain.SpecialPoints{
		Gulika:          gulika,
		ActiveGulika:    active,
		IsDayBirth:      isDay,
		MadhyaPranapada: MadhyaFromElapsed(gp),
		SphutaPranapada: SphutaPranapada(gp.TotalPalas, sun),
		Lagnas:          SpecialLagnas(lagna, sun, gp),
		Nisheka:         Nisheka(lagna, pos[domain.Saturn], active),
	}
}
