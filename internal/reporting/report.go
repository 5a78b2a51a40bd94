package reporting

import (
	"time"

	"rectification-lab/internal/metrics"
)

// Report represents the diagnostic report of one search run.
type Report struct {
	// Metadata
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id"`

	Request RequestSection `json:"request"`
	Outcome string         `json:"outcome"`

	// Fallback attempts in the order they ran
	Attempts []AttemptRow `json:"attempts"`

	// Ranked candidates (rank 1 first)
	Candidates []CandidateRow  `json:"candidates"`
	Summary    metrics.Summary `json:"summary"`

	// Rejection diagnostics, populated from the final attempt
	Rejections       metrics.RejectionBreakdown `json:"rejections"`
	ClosestRejection []RejectionRow             `json:"closest_rejections,omitempty"`

	// Present only when verification ran
	Verification *VerificationSection `json:"verification,omitempty"`
}

// RequestSection echoes the search inputs.
type RequestSection struct {
	Date      string  `json:"date"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UTCOffset string  `json:"utc_offset"`
	Window    string  `json:"window"`
	Step      string  `json:"step"`
	Strict    bool    `json:"strict"`
	Tolerance float64 `json:"tolerance"`
	Sunrise   string  `json:"sunrise"`
	Sunset    string  `json:"sunset"`
	Evidence  bool    `json:"evidence"`
}

// AttemptRow represents one fallback attempt.
type AttemptRow struct {
	State     string  `json:"state"`
	Window    string  `json:"window"`
	Strict    bool    `json:"strict"`
	Tolerance float64 `json:"tolerance"`
	Samples   int     `json:"samples"`
	Accepted  int     `json:"accepted"`
	Rejected  int     `json:"rejected"`
	Refined   int     `json:"refined"`
	Duration  string  `json:"duration"`
}

// CandidateRow represents one ranked candidate.
type CandidateRow struct {
	Rank            int      `json:"rank"`
	CandidateID     string   `json:"candidate_id"`
	Instant         string   `json:"instant"` // local RFC3339
	Lagna           string   `json:"lagna"`   // sign and degrees
	LagnaLongitude  float64  `json:"lagna_longitude"`
	Sphuta          float64  `json:"sphuta_pranapada"`
	PadekyataDelta  float64  `json:"padekyata_delta"`
	Source          string   `json:"padekyata_source"`
	Anchor          string   `json:"purification_anchor"`
	Verification    float64  `json:"verification_score"`
	Composite       float64  `json:"composite_score"`
	EventMatch      *float64 `json:"event_match,omitempty"`
	TraitMatch      *float64 `json:"trait_match,omitempty"`
	GestationMonths float64  `json:"gestation_months"`
	Refined         bool     `json:"refined"`
	Promoted        bool     `json:"promoted"`
}

// RejectionRow represents one entry of the rejection ledger.
type RejectionRow struct {
	Instant        string  `json:"instant"`
	Class          string  `json:"class"`
	SignDiff       int     `json:"sign_diff"`
	PadekyataDelta float64 `json:"padekyata_delta"`
	Band           string  `json:"band,omitempty"`
	Reason         string  `json:"reason"`
}

// VerificationSection summarizes a cache-free recomputation.
type VerificationSection struct {
	Total        int      `json:"total"`
	Matched      int      `json:"matched"`
	Divergent    int      `json:"divergent"`
	Flipped      int      `json:"flipped"`
	MaxMoonDrift float64  `json:"max_moon_drift"`
	Divergences  []string `json:"divergences,omitempty"`
}
