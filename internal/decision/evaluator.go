package decision

import (
	"fmt"
	"math"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

// Evaluator runs the hard filter. It holds no state; one value may be shared
// across goroutines.
type Evaluator struct{}

// NewEvaluator creates a new hard-filter evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate applies the trine rule, padekyata and purification gates.
// Accepted only if all three pass.
func (e *Evaluator) Evaluate(input Input) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	lagna := angle.Normalize(input.Lagna)
	sphuta := angle.Normalize(input.SphutaPranapada)
	gulika := angle.Normalize(input.Gulika)
	moon := angle.Normalize(input.Moon)
	tol := input.EffectiveTolerance()

	rec := domain.VerificationRecord{
		ToleranceUsed:  tol,
		PadekyataDelta: angle.Difference(lagna, sphuta),
	}

	// 1. Trine rule
	rec.SignDiff = SignDiff(lagna, sphuta)
	rec.PassesTrineRule = IsTrine(rec.SignDiff)
	if !rec.PassesTrineRule {
		rec.NonHumanBand = ClassifyBand(rec.SignDiff)
	}

	// 2. Padekyata
	sphutaPass := PassesPadekyata(lagna, sphuta, tol)
	madhyaPass := false
	if input.MadhyaPranapada != nil {
		d := angle.Difference(lagna, *input.MadhyaPranapada)
		rec.MadhyaDelta = &d
		madhyaPass = d <= StrictEpsilon
	}
	rec.PadekyataSource = padekyataSource(sphutaPass, madhyaPass)
	rec.PassesPadekyata = sphutaPass || madhyaPass
	if rec.PassesPadekyata {
		rec.DegreeMatch = fullScore
	}

	// 3. Purification anchor
	rec.MoonAlignment = AlignmentScore(angle.Difference(lagna, moon))
	gulikaDist, opposite := gulikaDistance(lagna, gulika)
	rec.GulikaAlignment = AlignmentScore(gulikaDist)
	rec.FallbackScore = MoonFallbackScore(lagna, moon)

	var anchorScore float64
	switch {
	case rec.PassesPadekyata:
		rec.PurificationAnchor = domain.AnchorPranapada
		anchorScore = anchorScoreForPP
	case angle.Difference(lagna, moon) <= tol:
		rec.PurificationAnchor = domain.AnchorMoon
		anchorScore = rec.MoonAlignment
	case gulikaDist <= tol:
		rec.PurificationAnchor = domain.AnchorGulika
		if opposite {
			rec.PurificationAnchor = domain.AnchorGulikaOpposite
		}
		anchorScore = rec.GulikaAlignment
	case rec.FallbackScore > MoonFallbackThreshold:
		rec.PurificationAnchor = domain.AnchorMoonFallback
		anchorScore = rec.FallbackScore
	default:
		rec.PurificationAnchor = domain.AnchorNone
	}

	var trineScore float64
	if rec.PassesTrineRule {
		trineScore = fullScore
	}
	rec.VerificationScore = weightTrine*trineScore + weightDegree*rec.DegreeMatch + weightAnchor*anchorScore

	// 4. Diagnostics, first failing gate wins.
	switch {
	case !rec.PassesTrineRule:
		rec.Rejection = domain.RejectTrine
		rec.Reason = fmt.Sprintf("trine rule failed: lagna is %d signs from pranapada, %s",
			rec.SignDiff, rec.NonHumanBand.Description())
	case !rec.PassesPadekyata:
		rec.Rejection = domain.RejectPadekyata
		rec.Reason = fmt.Sprintf("padekyata failed: lagna is %.2f° from sphuta pranapada, tolerance %.2f°",
			rec.PadekyataDelta, tol)
	case rec.PurificationAnchor == domain.AnchorNone:
		rec.Rejection = domain.RejectPurification
		rec.Reason = "purification failed: no anchor within tolerance"
	}

	return &Result{
		Accepted: rec.Accepted(),
		Record:   rec,
		Gates:    gates(rec),
	}, nil
}

// SignDiff returns (lagnaSign - pranapadaSign) mod 12.
func SignDiff(lagna, pranapada float64) int {
	return angle.ModSign(angle.SignIndex(lagna) - angle.SignIndex(pranapada))
}

// IsTrine reports whether a sign offset is 0, 4 or 8.
func IsTrine(signDiff int) bool {
	return angle.ModSign(signDiff)%4 == 0
}

// ClassifyBand maps a failing sign offset to its non-human band.
func ClassifyBand(signDiff int) domain.NonHumanBand {
	switch angle.ModSign(signDiff) {
	case 0, 4, 8:
		return domain.BandNone
	case 2, 6, 10:
		return domain.BandA
	case 3, 7, 11:
		return domain.BandB
	default:
		return domain.BandC
	}
}

// PassesPadekyata reports whether two longitudes agree within tol.
// Symmetric in its first two arguments.
func PassesPadekyata(a, b, tol float64) bool {
	return angle.Difference(a, b) <= tol
}

// AlignmentScore decays linearly from 100 at AlignmentEpsilon to 0 at AlignmentCeiling.
func AlignmentScore(dist float64) float64 {
	switch {
	case dist <= AlignmentEpsilon:
		return fullScore
	case dist >= AlignmentCeiling:
		return 0
	default:
		return fullScore * (AlignmentCeiling - dist) / (AlignmentCeiling - AlignmentEpsilon)
	}
}

// MoonFallbackScore scores the lagna against the ishta-kala point extracted
// from the Moon.
func MoonFallbackScore(lagna, moon float64) float64 {
	ishta := angle.Normalize(moon - MoonFallbackOffset)
	return AlignmentScore(angle.Difference(lagna, ishta))
}

// gulikaDistance returns the smaller of the lagna and its opposite point's
// distance to Gulika, and whether the opposite point was closer.
func gulikaDistance(lagna, gulika float64) (float64, bool) {
	direct := angle.Difference(lagna, gulika)
	opposite := angle.Difference(lagna+180, gulika)
	return math.Min(direct, opposite), opposite < direct
}

func padekyataSource(sphuta, madhya bool) domain.PadekyataSource {
	switch {
	case sphuta && madhya:
		return domain.PadekyataBoth
	case sphuta:
		return domain.PadekyataSphuta
	case madhya:
		return domain.PadekyataMadhya
	default:
		return domain.PadekyataNone
	}
}

func gates(rec domain.VerificationRecord) []CriterionResult {
	madhya := "n/a"
	if rec.MadhyaDelta != nil {
		madhya = fmt.Sprintf("%.2f°", *rec.MadhyaDelta)
	}
	return []CriterionResult{
		{
			Name:      "Trine rule",
			Threshold: "sign offset in {0,4,8}",
			Actual:    fmt.Sprintf("%d", rec.SignDiff),
			Pass:      rec.PassesTrineRule,
		},
		{
			Name:      "Padekyata",
			Threshold: fmt.Sprintf("sphuta <= %.2f° OR madhya <= %.2f°", rec.ToleranceUsed, StrictEpsilon),
			Actual:    fmt.Sprintf("sphuta=%.2f°, madhya=%s (%s)", rec.PadekyataDelta, madhya, rec.PadekyataSource),
			Pass:      rec.PassesPadekyata,
		},
		{
			Name:      "Purification anchor",
			Threshold: "anchor != none",
			Actual:    string(rec.PurificationAnchor),
			Pass:      rec.PurificationAnchor != domain.AnchorNone,
		},
	}
}
