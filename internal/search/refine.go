package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/observability"
	"rectification-lab/internal/timeunit"
)

// Refinement results reported to metrics.
const (
	RefineImproved  = "improved"
	RefineUnchanged = "unchanged"
	RefineFlipped   = "flipped"
)

type refined struct {
	best       sample
	refinement *domain.Refinement // nil when the original instant was kept
}

func (e *Engine) refineAll(ctx context.Context, at *attempt, samples []sample) ([]refined, error) {
	out := make([]refined, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, s := range samples {
		i, s := i, s // per-iteration copies; module targets go1.21 loop semantics
		g.Go(func() error {
			r, err := e.refine(gctx, at, s)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// refine scans pala by pala within half a step either side of s, never past
// the refine cap and never outside the attempt window, and keeps the accepted
// instant with the smallest padekyata delta. An accepted s is its own
// fallback, so refinement can only keep or improve it.
func (e *Engine) refine(ctx context.Context, at *attempt, s sample) (refined, error) {
	n := RefineSteps(at.params.Step, e.refineCap)

	best, found := s, s.result.Accepted
	steps := 0
	for k := -n; k <= n; k++ {
		if k == 0 {
			continue
		}
		t := s.instant.Add(time.Duration(k) * timeunit.Pala)
		if t.Before(at.start) || !t.Before(at.end) {
			continue
		}
		c, err := e.evaluate(ctx, at, t)
		if err != nil {
			return refined{}, err
		}
		steps++
		if !c.result.Accepted {
			continue
		}
		if !found || c.delta() < best.delta() {
			best, found = c, true
		}
	}

	if !found || best.instant.Equal(s.instant) {
		if s.result.Accepted {
			observability.RecordRefinement(RefineUnchanged)
		}
		return refined{best: s}, nil
	}

	ref := &domain.Refinement{
		Original:       s.instant,
		Refined:        best.instant,
		DeltaBefore:    s.delta(),
		DeltaAfter:     best.delta(),
		Improvement:    s.delta() - best.delta(),
		Steps:          steps,
		OutcomeChanged: !s.result.Accepted,
	}
	result := RefineImproved
	if ref.OutcomeChanged {
		result = RefineFlipped
	}
	observability.RecordRefinement(result)

	e.log.Debug("refined candidate",
		zap.Time("original", ref.Original),
		zap.Time("refined", ref.Refined),
		zap.Float64("delta_before", ref.DeltaBefore),
		zap.Float64("delta_after", ref.DeltaAfter),
		zap.Bool("outcome_changed", ref.OutcomeChanged),
	)
	return refined{best: best, refinement: ref}, nil
}

// RefineSteps returns how many pala steps to scan on each side of an instant:
// half the sampling step, bounded so both sides together stay within limit.
func RefineSteps(step time.Duration, limit int) int {
	n := int((step / 2) / timeunit.Pala)
	if half := limit / 2; n > half {
		n = half
	}
	if n < 0 {
		return 0
	}
	return n
}

func rejectionFor(s sample) domain.RejectionRecord {
	rec := s.result.Record
	return domain.RejectionRecord{
		Instant:         s.instant,
		Lagna:           s.lagna,
		SphutaPranapada: s.points.SphutaPranapada,
		SignDiff:        rec.SignDiff,
		PadekyataDelta:  rec.PadekyataDelta,
		GulikaDelta:     angle.Difference(s.lagna, s.points.ActiveGulika),
		MoonDelta:       angle.Difference(s.lagna, s.positions[domain.Moon]),
		Classification:  rec.Rejection,
		NonHumanBand:    rec.NonHumanBand,
		Reason:          rec.Reason,
	}
}
