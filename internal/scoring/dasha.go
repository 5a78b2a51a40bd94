package scoring

import (
	"math"
	"time"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

const (
	nakshatraSpan = 360.0 / 27
	dashaCycle    = 120.0
	yearLength    = time.Duration(365.25 * 24 * float64(time.Hour))
)

// DashaPeriod is one mahadasha.
type DashaPeriod struct {
	Lord  domain.Planet
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls in [Start, End).
func (p DashaPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

var vimshottariOrder = []domain.Planet{
	domain.Ketu, domain.Venus, domain.Sun, domain.Moon, domain.Mars,
	domain.Rahu, domain.Jupiter, domain.Saturn, domain.Mercury,
}

var vimshottariYears = map[domain.Planet]float64{
	domain.Ketu:    7,
	domain.Venus:   20,
	domain.Sun:     6,
	domain.Moon:    10,
	domain.Mars:    7,
	domain.Rahu:    18,
	domain.Jupiter: 16,
	domain.Saturn:  19,
	domain.Mercury: 17,
}

// Vimshottari computes the 120-year mahadasha sequence starting from the
// lord of the Moon's nakshatra, with the first period shortened by the part
// of the nakshatra already traversed.
type Vimshottari struct{}

// Compile-time interface check.
var _ DashaCalculator = Vimshottari{}

// Periods returns mahadashas covering at least 120 years after birth. The
// first period's Start is before birth by the elapsed portion.
func (Vimshottari) Periods(moon float64, birth time.Time) []DashaPeriod {
	moon = angle.Normalize(moon)
	nak := int(math.Floor(moon / nakshatraSpan))
	if nak > 26 {
		nak = 26
	}
	traversed := (moon - float64(nak)*nakshatraSpan) / nakshatraSpan

	idx := nak % len(vimshottariOrder)
	first := vimshottariOrder[idx]
	start := birth.Add(-scaleYears(vimshottariYears[first] * traversed))

	horizon := birth.Add(scaleYears(dashaCycle))
	var periods []DashaPeriod
	for cur := start; cur.Before(horizon); idx = (idx + 1) % len(vimshottariOrder) {
		lord := vimshottariOrder[idx]
		end := cur.Add(scaleYears(vimshottariYears[lord]))
		periods = append(periods, DashaPeriod{Lord: lord, Start: cur, End: end})
		cur = end
	}
	return periods
}

// NakshatraLord returns the Vimshottari lord of the nakshatra containing lon.
func NakshatraLord(lon float64) domain.Planet {
	nak := int(math.Floor(angle.Normalize(lon) / nakshatraSpan))
	return vimshottariOrder[nak%len(vimshottariOrder)]
}

// DashaAt returns the mahadasha lord running at t.
func DashaAt(periods []DashaPeriod, t time.Time) (domain.Planet, bool) {
	for _, p := range periods {
		if p.Contains(t) {
			return p.Lord, true
		}
	}
	return "", false
}

func scaleYears(years float64) time.Duration {
	return time.Duration(years * float64(yearLength))
}
