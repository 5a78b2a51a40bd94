package scoring

import (
	"time"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

// elementTraits is the physique classically associated with a lagna element.
type elementTraits struct {
	heights     []string
	builds      []string
	complexions []string
}

var traitsByElement = map[angle.Element]elementTraits{
	angle.Fire: {
		heights:     []string{domain.HeightMedium, domain.HeightTall},
		builds:      []string{domain.BuildThin, domain.BuildMedium},
		complexions: []string{domain.ComplexionFair},
	},
	angle.Earth: {
		heights:     []string{domain.HeightShort, domain.HeightMedium},
		builds:      []string{domain.BuildHeavy, domain.BuildMedium},
		complexions: []string{domain.ComplexionWheatish, domain.ComplexionDark},
	},
	angle.Air: {
		heights:     []string{domain.HeightTall},
		builds:      []string{domain.BuildThin},
		complexions: []string{domain.ComplexionFair, domain.ComplexionWheatish},
	},
	angle.Water: {
		heights:     []string{domain.HeightShort, domain.HeightMedium},
		builds:      []string{domain.BuildHeavy},
		complexions: []string{domain.ComplexionFair},
	},
}

// EvidenceMatcher compares supplied evidence with a chart.
type EvidenceMatcher struct {
	dasha    DashaCalculator
	strength StrengthCalculator
}

// NewEvidenceMatcher creates a matcher. Nil collaborators use the defaults.
func NewEvidenceMatcher(dasha DashaCalculator, strength StrengthCalculator) *EvidenceMatcher {
	if dasha == nil {
		dasha = Vimshottari{}
	}
	if strength == nil {
		strength = DignityStrength{}
	}
	return &EvidenceMatcher{dasha: dasha, strength: strength}
}

// MatchTraits returns the percentage of supplied traits that fit the lagna
// element. ok is false when no trait was supplied.
func (m *EvidenceMatcher) MatchTraits(traits *domain.PhysicalTraits, chart Chart) (score float64, ok bool) {
	if traits == nil {
		return 0, false
	}
	want := traitsByElement[angle.SignElement(chart.LagnaSign())]

	var total, matched int
	check := func(got string, allowed []string) {
		if got == "" {
			return
		}
		total++
		if contains(allowed, got) {
			matched++
		}
	}
	check(traits.Height, want.heights)
	check(traits.Build, want.builds)
	check(traits.Complexion, want.complexions)

	if total == 0 {
		return 0, false
	}
	return 100 * float64(matched) / float64(total), true
}

// MatchEvents returns the percentage of dated events whose running mahadasha
// lord signifies the event, plus sibling counts checked against house-lord
// strength. ok is false when nothing could be checked.
func (m *EvidenceMatcher) MatchEvents(ev *domain.Evidence, chart Chart) (score float64, ok bool) {
	if !ev.HasLifeEvents() {
		return 0, false
	}

	periods := m.dasha.Periods(chart.Positions[domain.Moon], chart.Birth)
	var total, matched int

	dated := func(years []int, significators []domain.Planet) {
		for _, y := range years {
			at := midYear(y, chart.Birth.Location())
			if at.Before(chart.Birth) {
				continue
			}
			lord, found := DashaAt(periods, at)
			if !found {
				continue
			}
			total++
			if containsPlanet(significators, lord) {
				matched++
			}
		}
	}

	if ev.Marriages != nil {
		dated(ev.Marriages.Years, []domain.Planet{domain.Venus, domain.Jupiter, chart.HouseLord(7)})
	}
	if ev.Children != nil {
		dated(ev.Children.Years, []domain.Planet{domain.Jupiter, chart.HouseLord(5)})
	}
	if ev.Career != nil {
		dated(ev.Career.Years, []domain.Planet{domain.Saturn, domain.Sun, chart.HouseLord(10)})
	}
	if ev.MajorEvents != nil {
		dated(ev.MajorEvents.Years, []domain.Planet{domain.Rahu, domain.Ketu, domain.Saturn, chart.HouseLord(8)})
	}
	if ev.Parents != nil {
		if ev.Parents.FatherPassedYear != nil {
			dated([]int{*ev.Parents.FatherPassedYear}, []domain.Planet{domain.Sun, domain.Saturn, chart.HouseLord(9)})
		}
		if ev.Parents.MotherPassedYear != nil {
			dated([]int{*ev.Parents.MotherPassedYear}, []domain.Planet{domain.Moon, domain.Saturn, chart.HouseLord(4)})
		}
	}

	if ev.Siblings != nil {
		strengths := m.strength.Strengths(chart)
		// Elder siblings are read from the 11th house, younger from the 3rd.
		for _, s := range []struct {
			count int
			house int
		}{{ev.Siblings.Elder, 11}, {ev.Siblings.Younger, 3}} {
			total++
			strong := strengths[chart.HouseLord(s.house)] >= StrengthNeutral
			if strong == (s.count > 0) {
				matched++
			}
		}
	}

	if total == 0 {
		return 0, false
	}
	return 100 * float64(matched) / float64(total), true
}

func midYear(year int, loc *time.Location) time.Time {
	return time.Date(year, time.July, 1, 12, 0, 0, 0, loc)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsPlanet(list []domain.Planet, p domain.Planet) bool {
	for _, s := range list {
		if s == p {
			return true
		}
	}
	return false
}
