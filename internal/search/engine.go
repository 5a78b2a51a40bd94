// Package search enumerates instants across a local time window, runs each
// through the hard filter, refines the survivors at pala resolution and ranks
// them by composite score.
package search

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rectification-lab/internal/decision"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/idhash"
	"rectification-lab/internal/lookup"
	"rectification-lab/internal/observability"
	"rectification-lab/internal/scoring"
	"rectification-lab/internal/specialpoint"
	"rectification-lab/internal/timeunit"
)

const (
	DefaultMaxRejections = 500
	DefaultRefineCap     = 150
	// DefaultNearMissMargin is how far past the tolerance a trine-passing
	// rejection may be and still be refined.
	DefaultNearMissMargin = 10.0
)

// Options configures an Engine. Provider is required; everything else has a default.
type Options struct {
	Provider       ephemeris.Provider
	Positions      *lookup.PositionCache // default: in-memory cache over Provider
	SolarDays      *lookup.SolarDays     // default: in-memory cache over Provider
	Scorer         *scoring.Scorer       // default: scoring.NewScorer(scoring.Options{})
	Workers        int                   // default: GOMAXPROCS
	MaxRejections  int                   // rejection ledger bound
	RefineCap      int                   // maximum pala steps per refinement
	NearMissMargin float64               // degrees
	Logger         *zap.Logger
}

// Engine runs single search attempts. It holds no per-search state and is
// safe for concurrent use; its caches are shared across searches.
type Engine struct {
	provider      ephemeris.Provider
	positions     *lookup.PositionCache
	solarDays     *lookup.SolarDays
	evaluator     *decision.Evaluator
	scorer        *scoring.Scorer
	workers       int
	maxRejections int
	refineCap     int
	nearMiss      float64
	log           *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Positions == nil {
		opts.Positions = lookup.NewPositionCache(opts.Provider, lookup.PositionCacheOptions{Logger: opts.Logger})
	}
	if opts.SolarDays == nil {
		opts.SolarDays = lookup.NewSolarDays(opts.Provider, nil, opts.Logger)
	}
	if opts.Scorer == nil {
		opts.Scorer = scoring.NewScorer(scoring.Options{})
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxRejections <= 0 {
		opts.MaxRejections = DefaultMaxRejections
	}
	if opts.RefineCap <= 0 {
		opts.RefineCap = DefaultRefineCap
	}
	if opts.NearMissMargin <= 0 {
		opts.NearMissMargin = DefaultNearMissMargin
	}

	return &Engine{
		provider:      opts.Provider,
		positions:     opts.Positions,
		solarDays:     opts.SolarDays,
		evaluator:     decision.NewEvaluator(),
		scorer:        opts.Scorer,
		workers:       opts.Workers,
		maxRejections: opts.MaxRejections,
		refineCap:     opts.RefineCap,
		nearMiss:      opts.NearMissMargin,
		log:           opts.Logger.Named("search"),
	}
}

// Positions returns the engine's position cache.
func (e *Engine) Positions() *lookup.PositionCache { return e.positions }

// Params describes one search attempt.
type Params struct {
	Date       time.Time // local calendar date; only Y/M/D are used
	Latitude   float64
	Longitude  float64
	UTCOffset  time.Duration
	Window     domain.Window
	Step       time.Duration
	Tolerance  float64
	StrictMode bool
	Evidence   *domain.Evidence
}

// ParamsFor converts a request into first-attempt parameters.
func ParamsFor(req domain.SearchRequest) Params {
	return Params{
		Date:       req.LocalDate(),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		UTCOffset:  req.UTCOffset,
		Window:     req.Window,
		Step:       req.StepOrDefault(),
		Tolerance:  req.ToleranceOrDefault(),
		StrictMode: req.StrictMode,
		Evidence:   req.Evidence,
	}
}

// Validate checks the attempt parameters.
func (p Params) Validate() error {
	if err := p.Window.Validate(); err != nil {
		return err
	}
	if p.Step < domain.MinStep {
		return fmt.Errorf("%w: step %s is finer than %s", domain.ErrInvalidInput, p.Step, domain.MinStep)
	}
	if p.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Location returns the fixed zone of the attempt.
func (p Params) Location() *time.Location {
	return domain.SearchRequest{UTCOffset: p.UTCOffset}.Location()
}

// Bounds resolves the window to absolute instants.
func (p Params) Bounds() (start, end time.Time) {
	return p.Window.Bounds(p.Date, p.Location())
}

// Result is the outcome of one attempt.
type Result struct {
	Candidates      []domain.Candidate // ranked
	Rejections      []domain.RejectionRecord
	RejectionsTotal int // before the ledger bound was applied
	Samples         int
	Refined         int // candidates moved by refinement
	Promoted        int // near-misses accepted after refinement
	SolarDay        domain.SolarDay
	Gulika          domain.GulikaPoints
	WindowStart     time.Time
	WindowEnd       time.Time
}

// attempt is the fixed input shared by every sample of one attempt.
type attempt struct {
	params     Params
	day        domain.SolarDay
	gulika     domain.GulikaPoints
	builder    *decision.Builder
	start, end time.Time
}

type sample struct {
	instant   time.Time
	lagna     float64
	positions domain.PlanetaryPositions
	points    domain.SpecialPoints
	result    *decision.Result
}

func (s sample) delta() float64 { return s.result.Record.PadekyataDelta }

// Search runs one attempt. Astronomical failures abort the attempt and are
// returned wrapped; an empty candidate list is not an error.
func (e *Engine) Search(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	at, err := e.prepare(ctx, p)
	if err != nil {
		return nil, err
	}

	instants := Instants(at.start, at.end, p.Step)
	samples, err := e.evaluateAll(ctx, at, instants)
	if err != nil {
		return nil, err
	}

	var provisional []sample
	rejections := make([]domain.RejectionRecord, 0, len(samples))
	for _, s := range samples {
		observability.RecordSample(string(s.result.Record.Rejection))
		if s.result.Accepted {
			provisional = append(provisional, s)
			continue
		}
		rejections = append(rejections, rejectionFor(s))
		if e.isNearMiss(at, s) {
			provisional = append(provisional, s)
		}
	}

	refined, err := e.refineAll(ctx, at, provisional)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RejectionsTotal: len(rejections),
		Samples:         len(samples),
		SolarDay:        at.day,
		Gulika:          at.gulika,
		WindowStart:     at.start,
		WindowEnd:       at.end,
	}
	for _, r := range refined {
		if !r.best.result.Accepted {
			continue
		}
		res.Candidates = append(res.Candidates, e.candidate(at, r.best, r.refinement))
	}

	Rank(res.Candidates)
	res.Candidates = dedupe(res.Candidates)
	res.Refined, res.Promoted = countRefinements(res.Candidates)
	res.Rejections = rankRejections(rejections, e.maxRejections)

	e.log.Debug("attempt evaluated",
		zap.Stringer("window", p.Window),
		zap.Bool("strict", p.StrictMode),
		zap.Int("samples", res.Samples),
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("rejections", res.RejectionsTotal),
		zap.Int("refined", res.Refined),
		zap.Int("promoted", res.Promoted),
	)
	return res, nil
}

// prepare resolves the solar day and Gulika once per attempt.
func (e *Engine) prepare(ctx context.Context, p Params) (*attempt, error) {
	day, err := e.solarDays.Get(ctx, p.Date, p.Latitude, p.Longitude, p.UTCOffset)
	if err != nil {
		return nil, fmt.Errorf("resolve solar day: %w", err)
	}

	gulika, err := specialpoint.Gulika(day, p.Location(), func(t time.Time) (float64, error) {
		return e.ascendant(t, p.Latitude, p.Longitude)
	})
	if err != nil {
		return nil, fmt.Errorf("compute gulika: %w", err)
	}

	start, end := p.Bounds()
	return &attempt{
		params:  p,
		day:     day,
		gulika:  gulika,
		builder: decision.NewBuilder(p.Tolerance, p.StrictMode),
		start:   start,
		end:     end,
	}, nil
}

// evaluateAll runs every instant through the hard filter in parallel. Results
// land at their input index so output order never depends on scheduling.
func (e *Engine) evaluateAll(ctx context.Context, at *attempt, instants []time.Time) ([]sample, error) {
	out := make([]sample, len(instants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, t := range instants {
		i, t := i, t // per-iteration copies; module targets go1.21 loop semantics
		g.Go(func() error {
			s, err := e.evaluate(gctx, at, t)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) evaluate(ctx context.Context, at *attempt, t time.Time) (sample, error) {
	if err := ctx.Err(); err != nil {
		return sample{}, err
	}

	pos, err := e.positions.Positions(ctx, t)
	if err != nil {
		return sample{}, fmt.Errorf("positions at %s: %w", t.Format(time.RFC3339), err)
	}
	lagna, err := e.ascendant(t, at.params.Latitude, at.params.Longitude)
	if err != nil {
		return sample{}, fmt.Errorf("ascendant at %s: %w", t.Format(time.RFC3339), err)
	}

	points := specialpoint.Compute(at.day, at.gulika, t, lagna, pos)
	res, err := e.evaluator.Evaluate(at.builder.Build(lagna, points, pos))
	if err != nil {
		return sample{}, fmt.Errorf("hard filter at %s: %w", t.Format(time.RFC3339), err)
	}

	return sample{instant: t, lagna: lagna, positions: pos, points: points, result: res}, nil
}

func (e *Engine) ascendant(t time.Time, lat, lon float64) (float64, error) {
	start := time.Now()
	v, err := e.provider.SiderealAscendant(t, lat, lon)
	observability.RecordEphemerisCall("sidereal_ascendant", time.Since(start), err)
	return v, err
}

// isNearMiss reports whether a rejected sample passed the trine rule and came
// close enough on padekyata to be worth refining.
func (e *Engine) isNearMiss(at *attempt, s sample) bool {
	rec := s.result.Record
	return rec.PassesTrineRule && rec.PadekyataDelta <= rec.ToleranceUsed+e.nearMiss
}

func (e *Engine) candidate(at *attempt, s sample, ref *domain.Refinement) domain.Candidate {
	p := at.params
	c := domain.Candidate{
		CandidateID: idhash.CandidateID(s.instant, p.Latitude, p.Longitude),
		Instant:     s.instant.In(p.Location()),
		Lagna:       s.lagna,
		Positions:   s.positions,
		Elapsed:     timeunit.ElapsedSinceSunrise(s.instant, at.day.Sunrise),
		Record:      s.result.Record,
		Points:      s.points,
		Refinement:  ref,
	}
	score := e.scorer.Score(c, p.Evidence)
	c.Score = &score
	return c
}
