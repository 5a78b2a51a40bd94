// Package orchestrator runs a rectification search through the fallback
// policy: primary window, widened full-day window, relaxed tolerance.
// Each attempt is traced; results of an earlier attempt are discarded when a
// later one runs.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/events"
	"rectification-lab/internal/observability"
	"rectification-lab/internal/search"
	"rectification-lab/internal/storage"
)

// ErrAbandoned is returned when the caller cancels between attempts.
var ErrAbandoned = errors.New("search abandoned")

// AttemptTrace records one attempt of the fallback policy.
type AttemptTrace struct {
	State       State         `json:"state"`
	Window      string        `json:"window"`
	WindowStart time.Time     `json:"window_start"`
	WindowEnd   time.Time     `json:"window_end"`
	StrictMode  bool          `json:"strict_mode"`
	Tolerance   float64       `json:"tolerance"`
	Samples     int           `json:"samples"`
	Accepted    int           `json:"accepted"`
	Rejected    int           `json:"rejected"`
	Refined     int           `json:"refined"`
	Promoted    int           `json:"promoted"`
	Duration    time.Duration `json:"duration_ns"`
}

// SearchResult is the outcome of a full search.
type SearchResult struct {
	RunID      string
	Request    domain.SearchRequest
	Params     search.Params // parameters of the final attempt
	Outcome    domain.SearchOutcome
	FinalState State
	Candidates []domain.Candidate // ranked, from the final attempt only
	Rejections []domain.RejectionRecord
	Attempts   []AttemptTrace
	SolarDay   domain.SolarDay
	Gulika     domain.GulikaPoints
	StartedAt  time.Time
	FinishedAt time.Time
}

// Best returns the top-ranked candidate, or nil.
func (r *SearchResult) Best() *domain.Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// Summary digests the result for persistence.
func (r *SearchResult) Summary() domain.RunSummary {
	s := domain.RunSummary{
		RunID:          r.RunID,
		Date:           r.Request.LocalDate().Format("2006-01-02"),
		Latitude:       r.Request.Latitude,
		Longitude:      r.Request.Longitude,
		OffsetSeconds:  int(r.Request.UTCOffset / time.Second),
		Window:         r.Request.Window.String(),
		StrictMode:     r.Request.StrictMode,
		Outcome:        r.Outcome,
		Attempts:       len(r.Attempts),
		CandidateCount: len(r.Candidates),
		RejectionCount: len(r.Rejections),
		CreatedAt:      r.FinishedAt,
	}
	if best := r.Best(); best != nil {
		id := best.CandidateID
		instant := best.Instant
		s.BestCandidateID = &id
		s.BestInstant = &instant
		if best.Score != nil {
			score := best.Score.Total
			s.BestScore = &score
		}
	}
	return s
}

// Options configures an Orchestrator. Engine is required.
type Options struct {
	Engine    *search.Engine
	Runs      storage.RunStore // optional
	Publisher events.Publisher // default: events.Noop
	Logger    *zap.Logger
}

// Orchestrator drives the fallback policy.
type Orchestrator struct {
	engine    *search.Engine
	runs      storage.RunStore
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Publisher == nil {
		opts.Publisher = events.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Orchestrator{
		engine:    opts.Engine,
		runs:      opts.Runs,
		publisher: opts.Publisher,
		log:       opts.Logger.Named("orchestrator"),
		now:       time.Now,
	}
}

// Run executes a search. observe, when non-nil, is called after every attempt.
// Input errors are returned before any attempt runs; astronomical errors abort
// the search. An exhausted search is a result with OutcomeNoCandidates.
func (o *Orchestrator) Run(ctx context.Context, req domain.SearchRequest, observe func(AttemptTrace)) (*SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &SearchResult{
		RunID:     uuid.NewString(),
		Request:   req,
		StartedAt: o.now(),
	}
	log := o.log.With(zap.String("run_id", result.RunID))

	state, params := StatePrimary, search.ParamsFor(req)
	for state != StateExhausted {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w before %s attempt: %w", ErrAbandoned, state, err)
		}

		started := time.Now()
		res, err := o.engine.Search(ctx, params)
		if err != nil {
			log.Error("search attempt failed", zap.String("state", string(state)), zap.Error(err))
			return nil, fmt.Errorf("%s attempt: %w", state, err)
		}

		trace := AttemptTrace{
			State:       state,
			Window:      params.Window.String(),
			WindowStart: res.WindowStart,
			WindowEnd:   res.WindowEnd,
			StrictMode:  params.StrictMode,
			Tolerance:   params.Tolerance,
			Samples:     res.Samples,
			Accepted:    len(res.Candidates),
			Rejected:    res.RejectionsTotal,
			Refined:     res.Refined,
			Promoted:    res.Promoted,
			Duration:    time.Since(started),
		}
		result.Attempts = append(result.Attempts, trace)
		observability.RecordAttempt(string(state), trace.Accepted, trace.Duration)
		log.Info("search attempt finished",
			zap.String("state", string(state)),
			zap.String("window", trace.Window),
			zap.Bool("strict", trace.StrictMode),
			zap.Float64("tolerance", trace.Tolerance),
			zap.Int("samples", trace.Samples),
			zap.Int("accepted", trace.Accepted),
			zap.Int("rejected", trace.Rejected),
			zap.Duration("duration", trace.Duration),
		)
		if observe != nil {
			observe(trace)
		}

		// Each attempt replaces the previous one's output.
		result.Params = params
		result.FinalState = state
		result.Candidates = res.Candidates
		result.Rejections = res.Rejections
		result.SolarDay = res.SolarDay
		result.Gulika = res.Gulika

		if len(res.Candidates) > 0 {
			break
		}
		state, params = Next(state, params)
		if state == StateExhausted {
			result.FinalState = StateExhausted
		}
	}

	result.Outcome = domain.OutcomeFound
	if len(result.Candidates) == 0 {
		result.Outcome = domain.OutcomeNoCandidates
	}
	result.FinishedAt = o.now()
	observability.RecordSearch(string(result.Outcome))

	o.record(ctx, log, result)
	return result, nil
}

// record persists and announces a finished search. Failures are logged; the
// search result stands on its own.
func (o *Orchestrator) record(ctx context.Context, log *zap.Logger, result *SearchResult) {
	summary := result.Summary()

	if o.runs != nil {
		if err := o.runs.Insert(ctx, &summary); err != nil {
			log.Warn("failed to persist run summary", zap.Error(err))
		}
	}

	err := o.publisher.Publish(ctx, events.FromSummary(summary, result.FinishedAt))
	observability.RecordEventPublished(err)
	if err != nil {
		log.Warn("failed to publish search event", zap.Error(err))
	}
}
