package reporting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Rectification Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Outcome: %s\n\n", r.RunID, r.Outcome))

	// Request
	sb.WriteString("## Request\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Date | %s |\n", r.Request.Date))
	sb.WriteString(fmt.Sprintf("| Location | %.4f, %.4f |\n", r.Request.Latitude, r.Request.Longitude))
	sb.WriteString(fmt.Sprintf("| UTC Offset | %s |\n", r.Request.UTCOffset))
	sb.WriteString(fmt.Sprintf("| Window | %s |\n", r.Request.Window))
	sb.WriteString(fmt.Sprintf("| Step | %s |\n", r.Request.Step))
	sb.WriteString(fmt.Sprintf("| Strict | %t |\n", r.Request.Strict))
	sb.WriteString(fmt.Sprintf("| Tolerance | %.2f° |\n", r.Request.Tolerance))
	sb.WriteString(fmt.Sprintf("| Sunrise | %s |\n", r.Request.Sunrise))
	sb.WriteString(fmt.Sprintf("| Sunset | %s |\n", r.Request.Sunset))
	sb.WriteString("\n")

	// Attempts
	sb.WriteString("## Attempts\n\n")
	if len(r.Attempts) > 0 {
		sb.WriteString("| # | State | Window | Strict | Tolerance | Samples | Accepted | Rejected | Refined | Duration |\n")
		sb.WriteString("|---|-------|--------|--------|-----------|---------|----------|----------|---------|----------|\n")
		for i, a := range r.Attempts {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %t | %.2f | %d | %d | %d | %d | %s |\n",
				i+1, a.State, a.Window, a.Strict, a.Tolerance, a.Samples, a.Accepted, a.Rejected, a.Refined, a.Duration))
		}
	} else {
		sb.WriteString("No attempts recorded.\n")
	}
	sb.WriteString("\n")

	// Candidates
	sb.WriteString("## Candidates\n\n")
	if len(r.Candidates) > 0 {
		sb.WriteString("| Rank | Instant | Lagna | Δ Padekyata | Source | Anchor | Verification | Composite | Refined |\n")
		sb.WriteString("|------|---------|-------|-------------|--------|--------|--------------|-----------|---------|\n")
		for _, c := range r.Candidates {
			refined := ""
			switch {
			case c.Promoted:
				refined = "promoted"
			case c.Refined:
				refined = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.4f | %s | %s | %.2f | %.2f | %s |\n",
				c.Rank, c.Instant, c.Lagna, c.PadekyataDelta, c.Source, c.Anchor, c.Verification, c.Composite, refined))
		}
		sb.WriteString("\n")

		s := r.Summary
		sb.WriteString(fmt.Sprintf("Composite: mean %.2f | median %.2f | p10 %.2f | p90 %.2f | min %.2f | max %.2f\n\n",
			s.Mean, s.Median, s.P10, s.P90, s.Min, s.Max))
	} else {
		sb.WriteString("No candidates passed the hard filter.\n\n")
	}

	// Rejections
	sb.WriteString("## Rejections\n\n")
	sb.WriteString("| Gate | Count |\n")
	sb.WriteString("|------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Trine | %d |\n", r.Rejections.Trine))
	sb.WriteString(fmt.Sprintf("| Padekyata | %d |\n", r.Rejections.Padekyata))
	sb.WriteString(fmt.Sprintf("| Purification | %d |\n", r.Rejections.Purification))
	sb.WriteString("\n")

	if len(r.ClosestRejection) > 0 {
		sb.WriteString("### Closest Rejections\n\n")
		for _, rej := range r.ClosestRejection {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", rej.Instant, rej.Reason))
		}
		sb.WriteString("\n")
	}

	// Verification
	if v := r.Verification; v != nil {
		sb.WriteString("## Verification\n\n")
		sb.WriteString(fmt.Sprintf("Matched %d of %d (divergent %d, flipped %d). Max Moon drift: %.4f°\n\n",
			v.Matched, v.Total, v.Divergent, v.Flipped, v.MaxMoonDrift))
		for _, d := range v.Divergences {
			sb.WriteString(fmt.Sprintf("- %s\n", d))
		}
		if len(v.Divergences) > 0 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderJSON renders report as indented JSON.
func RenderJSON(r *Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data) + "\n", nil
}
