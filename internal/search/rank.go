package search

import (
	"sort"

	"rectification-lab/internal/domain"
)

// Rank orders candidates by composite score descending, then by smaller
// padekyata delta, then chronologically. The sort is stable so equal keys
// keep their input order. Candidates without a score rank as zero.
func Rank(candidates []domain.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if sa, sb := total(a), total(b); sa != sb {
			return sa > sb
		}
		if a.Record.PadekyataDelta != b.Record.PadekyataDelta {
			return a.Record.PadekyataDelta < b.Record.PadekyataDelta
		}
		return a.Instant.Before(b.Instant)
	})
}

func total(c domain.Candidate) float64 {
	if c.Score == nil {
		return 0
	}
	return c.Score.Total
}

// dedupe drops later candidates sharing an ID with an earlier one.
func dedupe(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c.CandidateID]; ok {
			continue
		}
		seen[c.CandidateID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// countRefinements counts refined candidates and those refinement promoted
// from a rejection.
func countRefinements(candidates []domain.Candidate) (refined, promoted int) {
	for _, c := range candidates {
		if c.Refinement == nil {
			continue
		}
		refined++
		if c.Refinement.OutcomeChanged {
			promoted++
		}
	}
	return refined, promoted
}

// rankRejections orders rejections closest-first and keeps at most limit.
func rankRejections(rejections []domain.RejectionRecord, limit int) []domain.RejectionRecord {
	sort.SliceStable(rejections, func(i, j int) bool {
		a, b := rejections[i], rejections[j]
		if a.PadekyataDelta != b.PadekyataDelta {
			return a.PadekyataDelta < b.PadekyataDelta
		}
		return a.Instant.Before(b.Instant)
	})
	if limit > 0 && len(rejections) > limit {
		rejections = rejections[:limit]
	}
	return rejections
}
