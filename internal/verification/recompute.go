package verification

import (
	"context"
	"fmt"
	"math"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/decision"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/search"
	"rectification-lab/internal/specialpoint"
)

// Input is a finished attempt to verify.
type Input struct {
	Params     search.Params
	SolarDay   domain.SolarDay
	Gulika     domain.GulikaPoints
	Candidates []domain.Candidate
}

// Recomputer implements Verifier against an ephemeris provider.
type Recomputer struct {
	provider  ephemeris.Provider
	evaluator *decision.Evaluator
	tolerance float64
}

// Compile-time interface check.
var _ Verifier = (*Recomputer)(nil)

// Options contains configuration for creating a Recomputer.
type Options struct {
	Provider       ephemeris.Provider
	AngleTolerance float64 // degrees; default DefaultAngleTolerance
}

// NewRecomputer creates a verifier.
func NewRecomputer(opts Options) *Recomputer {
	if opts.AngleTolerance <= 0 {
		opts.AngleTolerance = DefaultAngleTolerance
	}
	return &Recomputer{
		provider:  opts.Provider,
		evaluator: decision.NewEvaluator(),
		tolerance: opts.AngleTolerance,
	}
}

// Recompute derives the candidate again at its exact instant.
func (r *Recomputer) Recompute(in Input, c domain.Candidate) (domain.Candidate, error) {
	p := in.Params

	pos, err := r.provider.PlanetaryLongitudes(c.Instant)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("recompute positions for %s: %w", c.CandidateID, err)
	}
	lagna, err := r.provider.SiderealAscendant(c.Instant, p.Latitude, p.Longitude)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("recompute ascendant for %s: %w", c.CandidateID, err)
	}

	points := specialpoint.Compute(in.SolarDay, in.Gulika, c.Instant, lagna, pos)
	res, err := r.evaluator.Evaluate(decision.NewBuilder(p.Tolerance, p.StrictMode).Build(lagna, points, pos))
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("recompute hard filter for %s: %w", c.CandidateID, err)
	}

	fresh := c
	fresh.Lagna = lagna
	fresh.Positions = pos
	fresh.Points = points
	fresh.Record = res.Record
	return fresh, nil
}

// VerifyAll recomputes every candidate and compares it with the cached one.
func (r *Recomputer) VerifyAll(ctx context.Context, in Input) (*VerificationReport, error) {
	report := &VerificationReport{
		TotalCandidates: len(in.Candidates),
		Results:         make([]VerificationResult, 0, len(in.Candidates)),
	}

	for _, c := range in.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fresh, err := r.Recompute(in, c)
		if err != nil {
			return nil, err
		}

		divergences := CompareCandidates(c, fresh, r.tolerance)
		result := VerificationResult{
			CandidateID: c.CandidateID,
			Match:       len(divergences) == 0,
			Divergences: divergences,
			MoonDrift:   angle.Difference(c.Positions[domain.Moon], fresh.Positions[domain.Moon]),
			Fresh:       fresh,
		}
		report.Results = append(report.Results, result)

		if result.Match {
			report.MatchedCandidates++
		} else {
			report.DivergentCandidates++
		}
		if c.Record.Accepted() && !fresh.Record.Accepted() {
			report.FlippedCandidates++
		}
		report.MaxMoonDrift = math.Max(report.MaxMoonDrift, result.MoonDrift)
	}

	return report, nil
}
