// Package verification recomputes ranked candidates straight from the
// ephemeris, bypassing the position cache, and reports where the cached
// search result diverges. The Moon drift it reports is the staleness the
// coarse position buckets trade for fewer ephemeris calls.
package verification

import (
	"context"
	"fmt"
	"math"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

// DefaultAngleTolerance is the default tolerance for longitude comparisons, in degrees.
const DefaultAngleTolerance = 0.5

// FieldDivergence represents a mismatch between cached and recomputed values.
type FieldDivergence struct {
	Field    string      // field name
	Expected interface{} // cached value
	Actual   interface{} // recomputed value
}

// VerificationResult contains the result of verifying a single candidate.
type VerificationResult struct {
	CandidateID string
	Match       bool // true if all fields agree within tolerance
	Divergences []FieldDivergence
	MoonDrift   float64 // degrees between cached and recomputed Moon
	Fresh       domain.Candidate
}

// VerificationReport contains results for batch verification.
type VerificationReport struct {
	TotalCandidates     int
	MatchedCandidates   int
	DivergentCandidates int
	FlippedCandidates   int // accepted from cache, rejected when recomputed
	MaxMoonDrift        float64
	Results             []VerificationResult
}

// Verifier checks candidates against a cache-free recomputation.
type Verifier interface {
	VerifyAll(ctx context.Context, in Input) (*VerificationReport, error)
}

// CompareCandidates compares a cached candidate with its recomputation and
// returns divergences. Longitudes are compared on the circle within tol degrees.
func CompareCandidates(cached, fresh domain.Candidate, tol float64) []FieldDivergence {
	var divergences []FieldDivergence

	angleField := func(name string, a, b float64) {
		if !angleEquals(a, b, tol) {
			divergences = append(divergences, FieldDivergence{Field: name, Expected: a, Actual: b})
		}
	}

	if !cached.Instant.Equal(fresh.Instant) {
		divergences = append(divergences, FieldDivergence{
			Field:    "Instant",
			Expected: cached.Instant,
			Actual:   fresh.Instant,
		})
	}

	angleField("Lagna", cached.Lagna, fresh.Lagna)
	angleField("SphutaPranapada", cached.Points.SphutaPranapada, fresh.Points.SphutaPranapada)
	angleField("MadhyaPranapada", cached.Points.MadhyaPranapada, fresh.Points.MadhyaPranapada)
	angleField("ActiveGulika", cached.Points.ActiveGulika, fresh.Points.ActiveGulika)
	angleField("Moon", cached.Positions[domain.Moon], fresh.Positions[domain.Moon])
	angleField("Sun", cached.Positions[domain.Sun], fresh.Positions[domain.Sun])

	if cached.Record.Accepted() != fresh.Record.Accepted() {
		divergences = append(divergences, FieldDivergence{
			Field:    "Accepted",
			Expected: cached.Record.Accepted(),
			Actual:   fresh.Record.Accepted(),
		})
	}

	if cached.Record.PurificationAnchor != fresh.Record.PurificationAnchor {
		divergences = append(divergences, FieldDivergence{
			Field:    "PurificationAnchor",
			Expected: cached.Record.PurificationAnchor,
			Actual:   fresh.Record.PurificationAnchor,
		})
	}

	return divergences
}

// FormatDivergence renders a divergence on one line.
func FormatDivergence(d FieldDivergence) string {
	return fmt.Sprintf("%s: cached=%v recomputed=%v", d.Field, d.Expected, d.Actual)
}

func angleEquals(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return angle.Difference(a, b) <= tol
}
