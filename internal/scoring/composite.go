package scoring

import (
	"math"

	"rectification-lab/internal/domain"
)

// Composite policy. Verification dominates; evidence adds a bounded bonus or
// penalty on top.
const (
	VerificationWeight = 0.8
	MaxStrengthBonus   = 8.0
	MaxLongevityBonus  = 4.0
	MaxEventBonus      = 5.0
	MaxTraitBonus      = 3.0
)

// Options configures a Scorer. Nil collaborators use the defaults.
type Options struct {
	Strength  StrengthCalculator
	Longevity LongevityEstimator
	Dasha     DashaCalculator
}

// Scorer computes composite scores. Safe for concurrent use when its
// collaborators are.
type Scorer struct {
	strength  StrengthCalculator
	longevity LongevityEstimator
	matcher   *EvidenceMatcher
}

// NewScorer creates a Scorer.
func NewScorer(opts Options) *Scorer {
	if opts.Strength == nil {
		opts.Strength = DignityStrength{}
	}
	if opts.Longevity == nil {
		opts.Longevity = ThreeBandLongevity{}
	}
	if opts.Dasha == nil {
		opts.Dasha = Vimshottari{}
	}
	return &Scorer{
		strength:  opts.Strength,
		longevity: opts.Longevity,
		matcher:   NewEvidenceMatcher(opts.Dasha, opts.Strength),
	}
}

// Score blends a candidate's verification score with the evidence.
// ev may be nil.
func (s *Scorer) Score(c domain.Candidate, ev *domain.Evidence) domain.CompositeScore {
	chart := ChartFor(c)
	strengths := s.strength.Strengths(chart)
	lagnaLord := clamp(strengths[chart.HouseLord(1)], 0, 100)

	out := domain.CompositeScore{
		Verification:   c.Record.VerificationScore,
		StrengthBonus:  MaxStrengthBonus * lagnaLord / 100,
		LongevityYears: math.Max(0, s.longevity.Longevity(chart)),
	}
	out.LongevityBonus = clamp((out.LongevityYears-MiddleLife)/(LongLife-MiddleLife)*MaxLongevityBonus,
		-MaxLongevityBonus, MaxLongevityBonus)

	if ev != nil {
		if match, ok := s.matcher.MatchEvents(ev, chart); ok {
			out.EventMatch = &match
			// A strong lagna lord lends more weight to corroborating events.
			weight := 0.5 + lagnaLord/200
			out.EventBonus = centered(match) * MaxEventBonus * weight
		}
		if match, ok := s.matcher.MatchTraits(ev.Traits, chart); ok {
			out.TraitMatch = &match
			out.TraitBonus = centered(match) * MaxTraitBonus
		}
	}

	out.Total = clamp(
		VerificationWeight*out.Verification+out.StrengthBonus+out.LongevityBonus+out.EventBonus+out.TraitBonus,
		0, 100)
	return out
}

// centered maps a 0-100 match to [-1, 1].
func centered(match float64) float64 {
	return clamp((match-50)/50, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
