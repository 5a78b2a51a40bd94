package decision

import (
	"errors"
	"fmt"
	"math"

	"rectification-lab/internal/domain"
)

const (
	// StrictEpsilon is the padekyata tolerance in strict mode and the fixed
	// tolerance for a madhya pranapada match.
	StrictEpsilon = 0.2

	// DefaultTolerance is one pala of longitude.
	DefaultTolerance = domain.DefaultTolerance

	// AlignmentCeiling is the distance at which alignment scores decay to zero.
	AlignmentCeiling = 30.0
	// AlignmentEpsilon is the distance under which alignment scores are full.
	AlignmentEpsilon = 1.0

	// MoonFallbackOffset is subtracted from the Moon to extract the ishta-kala point.
	MoonFallbackOffset = 210.0
	// MoonFallbackThreshold is the score a moon-fallback must exceed to anchor.
	MoonFallbackThreshold = 60.0
)

// Verification score weights.
const (
	weightTrine      = 0.3
	weightDegree     = 0.4
	weightAnchor     = 0.3
	fullScore        = 100.0
	anchorScoreForPP = fullScore
)

var (
	ErrNonFiniteAngle    = errors.New("angle is not finite")
	ErrNegativeTolerance = errors.New("tolerance must be >= 0")
)

// Input holds the longitudes evaluated by the hard filter for one instant.
type Input struct {
	Lagna           float64
	SphutaPranapada float64
	MadhyaPranapada *float64 // optional
	Gulika          float64
	Moon            float64

	Tolerance  float64 // used when StrictMode is false
	StrictMode bool
}

// Validate checks that every angle is finite and the tolerance is usable.
func (in *Input) Validate() error {
	angles := map[string]float64{
		"lagna":            in.Lagna,
		"sphuta pranapada": in.SphutaPranapada,
		"gulika":           in.Gulika,
		"moon":             in.Moon,
	}
	if in.MadhyaPranapada != nil {
		angles["madhya pranapada"] = *in.MadhyaPranapada
	}
	for name, v := range angles {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: %w", name, ErrNonFiniteAngle)
		}
	}
	if math.IsNaN(in.Tolerance) || in.Tolerance < 0 {
		return fmt.Errorf("%w: got %v", ErrNegativeTolerance, in.Tolerance)
	}
	return nil
}

// EffectiveTolerance returns the padekyata tolerance for the input's mode.
func (in *Input) EffectiveTolerance() float64 {
	if in.StrictMode {
		return StrictEpsilon
	}
	return in.Tolerance
}

// CriterionResult represents pass/fail for one gate.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Result contains the acceptance flag, the structured record and a checklist
// of the three gates in evaluation order.
type Result struct {
	Accepted bool
	Record   domain.VerificationRecord
	Gates    []CriterionResult // trine, padekyata, purification
}
