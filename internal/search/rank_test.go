package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rectification-lab/internal/domain"
)

func scored(id string, at time.Time, total, delta float64) domain.Candidate {
	return domain.Candidate{
		CandidateID: id,
		Instant:     at,
		Record:      domain.VerificationRecord{PadekyataDelta: delta},
		Score:       &domain.CompositeScore{Total: total},
	}
}

func ids(cs []domain.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.CandidateID
	}
	return out
}

func TestRank(t *testing.T) {
	t0 := time.Date(2024, time.March, 21, 10, 0, 0, 0, time.UTC)

	cs := []domain.Candidate{
		scored("late-tie", t0.Add(4*time.Minute), 80, 0.5),
		scored("low", t0, 60, 0),
		scored("close", t0.Add(6*time.Minute), 80, 0.1),
		scored("early-tie", t0.Add(2*time.Minute), 80, 0.5),
		scored("best", t0.Add(8*time.Minute), 95, 1.9),
		{CandidateID: "unscored", Instant: t0},
	}
	Rank(cs)

	assert.Equal(t, []string{"best", "close", "early-tie", "late-tie", "low", "unscored"}, ids(cs))
}

func TestDedupe(t *testing.T) {
	t0 := time.Date(2024, time.March, 21, 10, 0, 0, 0, time.UTC)
	cs := []domain.Candidate{
		scored("a", t0, 90, 0),
		scored("b", t0, 80, 0),
		scored("a", t0, 70, 0),
	}

	got := dedupe(cs)
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, 90.0, got[0].Score.Total)
}

func TestCountRefinements_AfterDedupe(t *testing.T) {
	t0 := time.Date(2024, time.March, 21, 10, 0, 0, 0, time.UTC)
	refinedTo := func(c domain.Candidate, promoted bool) domain.Candidate {
		c.Refinement = &domain.Refinement{Refined: c.Instant, OutcomeChanged: promoted}
		return c
	}

	// Two near-misses refined onto the same pala collapse into one candidate.
	cs := []domain.Candidate{
		refinedTo(scored("a", t0, 90, 0.1), true),
		refinedTo(scored("a", t0, 90, 0.1), true),
		refinedTo(scored("b", t0.Add(time.Hour), 80, 0.5), false),
		scored("c", t0.Add(2*time.Hour), 70, 1),
	}

	got := dedupe(cs)
	refined, promoted := countRefinements(got)
	assert.Len(t, got, 3)
	assert.Equal(t, 2, refined)
	assert.Equal(t, 1, promoted)
}

func TestRankRejections(t *testing.T) {
	t0 := time.Date(2024, time.March, 21, 10, 0, 0, 0, time.UTC)
	rs := []domain.RejectionRecord{
		{Instant: t0, PadekyataDelta: 30},
		{Instant: t0.Add(2 * time.Minute), PadekyataDelta: 3},
		{Instant: t0.Add(4 * time.Minute), PadekyataDelta: 30},
		{Instant: t0.Add(6 * time.Minute), PadekyataDelta: 10},
	}

	got := rankRejections(rs, 3)
	assert.Len(t, got, 3)
	assert.Equal(t, 3.0, got[0].PadekyataDelta)
	assert.Equal(t, 10.0, got[1].PadekyataDelta)
	assert.Equal(t, t0, got[2].Instant)
}
