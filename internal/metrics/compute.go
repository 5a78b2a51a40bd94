// Package metrics summarizes the score distribution of a candidate set and
// the composition of a rejection ledger.
package metrics

import (
	"math"
	"sort"

	"rectification-lab/internal/domain"
)

// Summary describes the composite scores of a ranked candidate set.
type Summary struct {
	Count  int
	Mean   float64
	Stddev float64
	Min    float64
	Max    float64
	Median float64
	P10    float64
	P90    float64

	MeanPadekyataDelta float64
	Refined            int // candidates moved by refinement
	Promoted           int // near-misses accepted after refinement
	ByAnchor           map[domain.PurificationAnchor]int
	BySource           map[domain.PadekyataSource]int
}

// RejectionBreakdown counts a rejection ledger by failing gate and band.
type RejectionBreakdown struct {
	Total        int
	Trine        int
	Padekyata    int
	Purification int
	ByBand       map[domain.NonHumanBand]int
	// Closest is the smallest padekyata delta among trine-passing rejections,
	// nil when none passed the trine rule.
	Closest *float64
}

// Summarize computes the score summary. Candidates without a score count as zero.
func Summarize(candidates []domain.Candidate) Summary {
	s := Summary{
		Count:    len(candidates),
		ByAnchor: make(map[domain.PurificationAnchor]int),
		BySource: make(map[domain.PadekyataSource]int),
	}
	if s.Count == 0 {
		return s
	}

	scores := make([]float64, s.Count)
	deltaSum := 0.0
	for i, c := range candidates {
		if c.Score != nil {
			scores[i] = c.Score.Total
		}
		deltaSum += c.Record.PadekyataDelta
		s.ByAnchor[c.Record.PurificationAnchor]++
		s.BySource[c.Record.PadekyataSource]++
		if c.Refinement != nil {
			s.Refined++
			if c.Refinement.OutcomeChanged {
				s.Promoted++
			}
		}
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	s.Mean = computeMean(scores)
	s.Stddev = computeStddev(scores, s.Mean)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = computePercentile(sorted, 0.5)
	s.P10 = computePercentile(sorted, 0.10)
	s.P90 = computePercentile(sorted, 0.90)
	s.MeanPadekyataDelta = deltaSum / float64(s.Count)
	return s
}

// BreakDown counts rejections by class and non-human band.
func BreakDown(rejections []domain.RejectionRecord) RejectionBreakdown {
	b := RejectionBreakdown{
		Total:  len(rejections),
		ByBand: make(map[domain.NonHumanBand]int),
	}
	closest := math.Inf(1)
	for _, r := range rejections {
		switch r.Classification {
		case domain.RejectTrine:
			b.Trine++
			b.ByBand[r.NonHumanBand]++
			continue
		case domain.RejectPadekyata:
			b.Padekyata++
		case domain.RejectPurification:
			b.Purification++
		}
		closest = math.Min(closest, r.PadekyataDelta)
	}
	if !math.IsInf(closest, 1) {
		b.Closest = &closest
	}
	return b
}

// computeMean calculates arithmetic mean of values.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0 // Need at least 2 samples for sample stddev
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	// Index for percentile (0-based, continuous)
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
