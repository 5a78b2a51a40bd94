// Package events publishes search lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"rectification-lab/internal/domain"
)

// DefaultSubject is the subject search-completed events are published on.
const DefaultSubject = "rectification.completed"

// SearchCompleted is emitted once per finished search.
type SearchCompleted struct {
	RunID           string               `json:"run_id"`
	Date            string               `json:"date"`
	Latitude        float64              `json:"latitude"`
	Longitude       float64              `json:"longitude"`
	Outcome         domain.SearchOutcome `json:"outcome"`
	Attempts        int                  `json:"attempts"`
	CandidateCount  int                  `json:"candidate_count"`
	BestCandidateID string               `json:"best_candidate_id,omitempty"`
	BestInstant     *time.Time           `json:"best_instant,omitempty"`
	BestScore       *float64             `json:"best_score,omitempty"`
	FinishedAt      time.Time            `json:"finished_at"`
}

// FromSummary builds the event for a persisted run summary.
func FromSummary(s domain.RunSummary, finishedAt time.Time) SearchCompleted {
	ev := SearchCompleted{
		RunID:          s.RunID,
		Date:           s.Date,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		Outcome:        s.Outcome,
		Attempts:       s.Attempts,
		CandidateCount: s.CandidateCount,
		BestInstant:    s.BestInstant,
		BestScore:      s.BestScore,
		FinishedAt:     finishedAt,
	}
	if s.BestCandidateID != nil {
		ev.BestCandidateID = *s.BestCandidateID
	}
	return ev
}

// Encode returns the wire form of an event.
func Encode(ev SearchCompleted) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("error marshaling event: %w", err)
	}
	return data, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev SearchCompleted) error
	Close() error
}

// Noop discards events.
type Noop struct{}

// Compile-time interface check.
var _ Publisher = Noop{}

// Publish does nothing.
func (Noop) Publish(context.Context, SearchCompleted) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []SearchCompleted
	err    error
}

// Compile-time interface check.
var _ Publisher = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes subsequent Publish calls return err without recording.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Publish records ev.
func (r *Recorder) Publish(_ context.Context, ev SearchCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []SearchCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SearchCompleted, len(r.events))
	copy(out, r.events)
	return out
}

// Close does nothing.
func (r *Recorder) Close() error { return nil }
