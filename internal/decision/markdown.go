package decision

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders one hard-filter Result as a Markdown checklist.
func RenderMarkdown(result *Result) string {
	var sb strings.Builder

	verdict := "ACCEPTED"
	if !result.Accepted {
		verdict = "REJECTED"
	}

	sb.WriteString("# Verification Report\n\n")
	sb.WriteString(fmt.Sprintf("## Verdict: %s\n\n", verdict))

	sb.WriteString("## Gates\n\n")
	sb.WriteString("| # | Gate | Threshold | Actual | Pass |\n")
	sb.WriteString("|---|------|-----------|--------|------|\n")
	for i, c := range result.Gates {
		passStr := "PASS"
		if !c.Pass {
			passStr = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, c.Name, c.Threshold, c.Actual, passStr))
	}
	sb.WriteString("\n")

	passed := 0
	for _, c := range result.Gates {
		if c.Pass {
			passed++
		}
	}
	sb.WriteString(fmt.Sprintf("Gates: %d/%d passed\n\n", passed, len(result.Gates)))

	rec := result.Record
	sb.WriteString("## Scores\n\n")
	sb.WriteString("| Score | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Degree match | %.1f |\n", rec.DegreeMatch))
	sb.WriteString(fmt.Sprintf("| Gulika alignment | %.1f |\n", rec.GulikaAlignment))
	sb.WriteString(fmt.Sprintf("| Moon alignment | %.1f |\n", rec.MoonAlignment))
	sb.WriteString(fmt.Sprintf("| Moon fallback | %.1f |\n", rec.FallbackScore))
	sb.WriteString(fmt.Sprintf("| Verification | %.1f |\n", rec.VerificationScore))
	sb.WriteString("\n")

	sb.WriteString("## Summary\n\n")
	if result.Accepted {
		sb.WriteString(fmt.Sprintf("All gates passed; purified by %s.\n", rec.PurificationAnchor))
	} else {
		sb.WriteString(fmt.Sprintf("Rejected (%s): %s\n", rec.Rejection, rec.Reason))
	}

	return sb.String()
}
