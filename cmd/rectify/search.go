package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"rectification-lab/internal/app"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/orchestrator"
	"rectification-lab/internal/reporting"
	"rectification-lab/internal/verification"
)

// Output formats.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatCSV      = "csv"
)

type searchFlags struct {
	date      string
	lat       float64
	lon       float64
	offset    string
	start     string
	end       string
	step      time.Duration
	strict    bool
	tolerance float64
	evidence  string
	format    string
	verify    bool
	output    string
	timeout   time.Duration
}

var sf searchFlags

// newProvider is replaced in tests.
var newProvider = func() ephemeris.Provider { return ephemeris.NewAnalytic() }

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a birth window and print ranked candidates",
	Long: `Samples [start, end) on the given local date and prints a report.

Example:
  rectify search --date 1990-07-14 --lat 28.6139 --lon 77.2090 --offset +05:30 \
    --start 10:00 --end 12:00 --evidence evidence.yaml --format markdown`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&sf.date, "date", "", "Local birth date (YYYY-MM-DD)")
	f.Float64Var(&sf.lat, "lat", 0, "Latitude in degrees, north positive")
	f.Float64Var(&sf.lon, "lon", 0, "Longitude in degrees, east positive")
	f.StringVar(&sf.offset, "offset", "+00:00", "UTC offset (±HH:MM)")
	f.StringVar(&sf.start, "start", "", "Window start (HH:MM)")
	f.StringVar(&sf.end, "end", "", "Window end (HH:MM, 24:00 allowed)")
	f.DurationVar(&sf.step, "step", 0, "Sampling step (default from config, 2m)")
	f.BoolVar(&sf.strict, "strict", false, "Strict padekyata mode")
	f.Float64Var(&sf.tolerance, "tolerance", domain.DefaultTolerance, "Padekyata tolerance in degrees")
	f.StringVar(&sf.evidence, "evidence", "", "YAML file with traits and life events")
	f.StringVar(&sf.format, "format", formatMarkdown, "Output format: markdown, json or csv")
	f.BoolVar(&sf.verify, "verify", false, "Recompute candidates without the position cache")
	f.StringVarP(&sf.output, "output", "o", "", "Write the report to a file instead of stdout")
	f.DurationVar(&sf.timeout, "timeout", 5*time.Minute, "Abandon the search after this long")

	for _, name := range []string{"date", "lat", "lon", "start", "end"} {
		_ = searchCmd.MarkFlagRequired(name)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	switch sf.format {
	case formatMarkdown, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unknown format %q", sf.format)
	}

	req, err := buildRequest(sf, cmd.Flags().Changed("tolerance"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, sf.timeout)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger, app.Options{Provider: newProvider(), Publish: true})
	if err != nil {
		return err
	}
	defer a.Close()
	a.ApplyDefaults(&req)

	result, err := a.Orchestrator.Run(ctx, req, nil)
	if err != nil {
		return err
	}

	var verify *verification.VerificationReport
	if sf.verify && len(result.Candidates) > 0 {
		verify, err = verifyResult(ctx, a.Provider, result)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if sf.output != "" {
		file, err := os.Create(sf.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := render(out, sf.format, reporting.NewGenerator().Generate(result, verify)); err != nil {
		return err
	}

	logger.Info("search finished",
		zap.String("run_id", result.RunID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("attempts", len(result.Attempts)),
	)
	return nil
}

// buildRequest converts flags into a request. The tolerance flag only
// overrides the config when set explicitly.
func buildRequest(f searchFlags, toleranceSet bool) (domain.SearchRequest, error) {
	date, err := domain.ParseDate(f.date)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	offset, err := domain.ParseUTCOffset(f.offset)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	start, err := domain.ParseClock(f.start)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	end, err := domain.ParseClock(f.end)
	if err != nil {
		return domain.SearchRequest{}, err
	}

	req := domain.SearchRequest{
		Date:       date,
		Latitude:   f.lat,
		Longitude:  f.lon,
		UTCOffset:  offset,
		Window:     domain.Window{Start: start, End: end},
		Step:       f.step,
		StrictMode: f.strict,
	}
	if toleranceSet {
		tol := f.tolerance
		req.Tolerance = &tol
	}
	if f.evidence != "" {
		ev, err := loadEvidence(f.evidence)
		if err != nil {
			return domain.SearchRequest{}, err
		}
		req.Evidence = ev
	}
	return req, nil
}

func loadEvidence(path string) (*domain.Evidence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evidence: %w", err)
	}
	var ev domain.Evidence
	if err := yaml.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: parse evidence %s: %v", domain.ErrInvalidInput, path, err)
	}
	return &ev, nil
}

func verifyResult(ctx context.Context, provider ephemeris.Provider, result *orchestrator.SearchResult) (*verification.VerificationReport, error) {
	v := verification.NewRecomputer(verification.Options{Provider: provider})
	report, err := v.VerifyAll(ctx, verification.Input{
		Params:     result.Params,
		SolarDay:   result.SolarDay,
		Gulika:     result.Gulika,
		Candidates: result.Candidates,
	})
	if err != nil {
		return nil, fmt.Errorf("verify candidates: %w", err)
	}
	if report.DivergentCandidates > 0 {
		logger.Warn("cached positions diverge from recomputation",
			zap.Int("divergent", report.DivergentCandidates),
			zap.Int("flipped", report.FlippedCandidates),
			zap.Float64("max_moon_drift", report.MaxMoonDrift),
		)
	}
	return report, nil
}

func render(w io.Writer, format string, r *reporting.Report) error {
	var out string
	switch format {
	case formatJSON:
		s, err := reporting.RenderJSON(r)
		if err != nil {
			return err
		}
		out = s
	case formatCSV:
		out = reporting.RenderCSV(r.Candidates)
	default:
		out = reporting.RenderMarkdown(r)
	}
	_, err := io.WriteString(w, out)
	return err
}
