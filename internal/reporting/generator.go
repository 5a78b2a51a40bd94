package reporting

import (
	"fmt"
	"time"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/metrics"
	"rectification-lab/internal/orchestrator"
	"rectification-lab/internal/verification"
)

// DefaultClosestRejections is how many ledger entries an empty result lists.
const DefaultClosestRejections = 10

// Generator produces reports from search results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report. verify may be nil.
func (g *Generator) Generate(result *orchestrator.SearchResult, verify *verification.VerificationReport) *Report {
	loc := result.Request.Location()
	req := result.Request

	r := &Report{
		GeneratedAt: g.now(),
		RunID:       result.RunID,
		Request: RequestSection{
			Date:      req.LocalDate().Format("2006-01-02"),
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			UTCOffset: loc.String(),
			Window:    req.Window.String(),
			Step:      req.StepOrDefault().String(),
			Strict:    req.StrictMode,
			Tolerance: req.ToleranceOrDefault(),
			Sunrise:   formatInstant(result.SolarDay.Sunrise, loc),
			Sunset:    formatInstant(result.SolarDay.Sunset, loc),
			Evidence:  req.Evidence != nil,
		},
		Outcome:    string(result.Outcome),
		Summary:    metrics.Summarize(result.Candidates),
		Rejections: metrics.BreakDown(result.Rejections),
	}

	for _, a := range result.Attempts {
		r.Attempts = append(r.Attempts, AttemptRow{
			State:     string(a.State),
			Window:    a.Window,
			Strict:    a.StrictMode,
			Tolerance: a.Tolerance,
			Samples:   a.Samples,
			Accepted:  a.Accepted,
			Rejected:  a.Rejected,
			Refined:   a.Refined,
			Duration:  a.Duration.Round(time.Millisecond).String(),
		})
	}

	r.Candidates = CandidateRows(result.Candidates, loc)

	if len(result.Candidates) == 0 {
		for i, rej := range result.Rejections {
			if i == DefaultClosestRejections {
				break
			}
			r.ClosestRejection = append(r.ClosestRejection, RejectionRow{
				Instant:        formatInstant(rej.Instant, loc),
				Class:          string(rej.Classification),
				SignDiff:       rej.SignDiff,
				PadekyataDelta: rej.PadekyataDelta,
				Band:           string(rej.NonHumanBand),
				Reason:         rej.Reason,
			})
		}
	}

	if verify != nil {
		v := &VerificationSection{
			Total:        verify.TotalCandidates,
			Matched:      verify.MatchedCandidates,
			Divergent:    verify.DivergentCandidates,
			Flipped:      verify.FlippedCandidates,
			MaxMoonDrift: verify.MaxMoonDrift,
		}
		for _, res := range verify.Results {
			for _, d := range res.Divergences {
				v.Divergences = append(v.Divergences, res.CandidateID+" "+verification.FormatDivergence(d))
			}
		}
		r.Verification = v
	}

	return r
}

// CandidateRows converts ranked candidates to rows.
func CandidateRows(candidates []domain.Candidate, loc *time.Location) []CandidateRow {
	rows := make([]CandidateRow, 0, len(candidates))
	for i, c := range candidates {
		row := CandidateRow{
			Rank:            i + 1,
			CandidateID:     c.CandidateID,
			Instant:         formatInstant(c.Instant, loc),
			Lagna:           FormatLongitude(c.Lagna),
			LagnaLongitude:  c.Lagna,
			Sphuta:          c.Points.SphutaPranapada,
			PadekyataDelta:  c.Record.PadekyataDelta,
			Source:          string(c.Record.PadekyataSource),
			Anchor:          string(c.Record.PurificationAnchor),
			Verification:    c.Record.VerificationScore,
			GestationMonths: c.Points.Nisheka.GestationMonths,
			Refined:         c.Refinement != nil,
			Promoted:        c.Refinement != nil && c.Refinement.OutcomeChanged,
		}
		if c.Score != nil {
			row.Composite = c.Score.Total
			row.EventMatch = c.Score.EventMatch
			row.TraitMatch = c.Score.TraitMatch
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatLongitude renders a longitude as "Leo 14°03'".
func FormatLongitude(lon float64) string {
	deg := angle.DegreesInSign(lon)
	whole := int(deg)
	minutes := int((deg - float64(whole)) * 60)
	return fmt.Sprintf("%s %02d°%02d'", angle.SignName(angle.SignIndex(lon)), whole, minutes)
}

func formatInstant(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}
