package domain

import "time"

// Candidate is an accepted instant with everything derived for it.
// Candidates are immutable once produced.
type Candidate struct {
	CandidateID string
	Instant     time.Time
	Lagna       float64
	Positions   PlanetaryPositions
	Elapsed     time.Duration // since the reference sunrise
	Record      VerificationRecord
	Points      SpecialPoints
	Refinement  *Refinement
	Score       *CompositeScore
}

// Refinement records the outcome of the pala-level local search.
type Refinement struct {
	Original       time.Time
	Refined        time.Time
	DeltaBefore    float64
	DeltaAfter     float64
	Improvement    float64
	Steps          int
	OutcomeChanged bool
}

// CompositeScore is the blended 0-100 ranking score with its contributions.
type CompositeScore struct {
	Verification   float64
	StrengthBonus  float64
	LongevityBonus float64
	EventBonus     float64
	TraitBonus     float64
	Total          float64

	LongevityYears float64
	EventMatch     *float64 // 0-100, nil when no events supplied
	TraitMatch     *float64 // 0-100, nil when no traits supplied
}

// RejectionRecord is a rejected instant with the fields needed for diagnostics.
// Never used for ranking.
type RejectionRecord struct {
	Instant         time.Time
	Lagna           float64
	SphutaPranapada float64
	SignDiff        int
	PadekyataDelta  float64
	GulikaDelta     float64
	MoonDelta       float64
	Classification  RejectionClass
	NonHumanBand    NonHumanBand
	Reason          string
}
