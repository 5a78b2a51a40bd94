package metrics

import (
	"math"
	"testing"

	"rectification-lab/internal/domain"
)

func candidate(score, delta float64, anchor domain.PurificationAnchor) domain.Candidate {
	return domain.Candidate{
		Record: domain.VerificationRecord{
			PadekyataDelta:     delta,
			PurificationAnchor: anchor,
			PadekyataSource:    domain.PadekyataSphuta,
		},
		Score: &domain.CompositeScore{Total: score},
	}
}

func TestSummarize(t *testing.T) {
	candidates := []domain.Candidate{
		candidate(90, 0.5, domain.AnchorPranapada),
		candidate(70, 1.5, domain.AnchorPranapada),
		candidate(80, 1.0, domain.AnchorPranapada),
		candidate(60, 0, domain.AnchorPranapada),
	}
	candidates[1].Refinement = &domain.Refinement{OutcomeChanged: true}
	candidates[2].Refinement = &domain.Refinement{}

	s := Summarize(candidates)

	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	if s.Mean != 75 {
		t.Errorf("Mean = %v, want 75", s.Mean)
	}
	if s.Min != 60 || s.Max != 90 {
		t.Errorf("Min/Max = %v/%v, want 60/90", s.Min, s.Max)
	}
	if s.Median != 75 {
		t.Errorf("Median = %v, want 75", s.Median)
	}
	if math.Abs(s.P90-87) > 1e-9 {
		t.Errorf("P90 = %v, want 87", s.P90)
	}
	if math.Abs(s.MeanPadekyataDelta-0.75) > 1e-9 {
		t.Errorf("MeanPadekyataDelta = %v, want 0.75", s.MeanPadekyataDelta)
	}
	if s.Refined != 2 || s.Promoted != 1 {
		t.Errorf("Refined/Promoted = %d/%d, want 2/1", s.Refined, s.Promoted)
	}
	if s.ByAnchor[domain.AnchorPranapada] != 4 {
		t.Errorf("ByAnchor = %v", s.ByAnchor)
	}
	// sample stddev of 60,70,80,90
	if math.Abs(s.Stddev-12.909944) > 1e-6 {
		t.Errorf("Stddev = %v", s.Stddev)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || s.Mean != 0 || s.Max != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestSummarize_UnscoredCountsAsZero(t *testing.T) {
	s := Summarize([]domain.Candidate{{}, candidate(50, 0, domain.AnchorMoon)})
	if s.Min != 0 || s.Max != 50 || s.Mean != 25 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestBreakDown(t *testing.T) {
	rejections := []domain.RejectionRecord{
		{Classification: domain.RejectTrine, NonHumanBand: domain.BandA, PadekyataDelta: 0.1},
		{Classification: domain.RejectTrine, NonHumanBand: domain.BandC, PadekyataDelta: 40},
		{Classification: domain.RejectTrine, NonHumanBand: domain.BandA, PadekyataDelta: 61},
		{Classification: domain.RejectPadekyata, PadekyataDelta: 4.5},
		{Classification: domain.RejectPadekyata, PadekyataDelta: 2.5},
	}

	b := BreakDown(rejections)
	if b.Total != 5 || b.Trine != 3 || b.Padekyata != 2 || b.Purification != 0 {
		t.Errorf("unexpected counts %+v", b)
	}
	if b.ByBand[domain.BandA] != 2 || b.ByBand[domain.BandC] != 1 {
		t.Errorf("unexpected bands %v", b.ByBand)
	}
	// Trine failures never count as closest.
	if b.Closest == nil || *b.Closest != 2.5 {
		t.Errorf("Closest = %v, want 2.5", b.Closest)
	}
}

func TestBreakDown_OnlyTrine(t *testing.T) {
	b := BreakDown([]domain.RejectionRecord{{Classification: domain.RejectTrine, NonHumanBand: domain.BandB}})
	if b.Closest != nil {
		t.Errorf("expected nil Closest, got %v", *b.Closest)
	}
}

func TestComputePercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{7}, 0.9, 7},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 0.10, 10},
		{"max", []float64{1, 2, 3}, 1.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computePercentile(tt.sorted, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computePercentile = %v, want %v", got, tt.want)
			}
		})
	}
}
