package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders ranked candidates as CSV string.
func RenderCSV(rows []CandidateRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,candidate_id,instant,lagna_longitude,sphuta_pranapada,padekyata_delta,")
	sb.WriteString("padekyata_source,purification_anchor,verification_score,composite_score,")
	sb.WriteString("gestation_months,refined,promoted\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%.6f,%.6f,%.6f,%s,%s,%.6f,%.6f,%.1f,%t,%t\n",
			r.Rank,
			r.CandidateID,
			r.Instant,
			r.LagnaLongitude,
			r.Sphuta,
			r.PadekyataDelta,
			r.Source,
			r.Anchor,
			r.Verification,
			r.Composite,
			r.GestationMonths,
			r.Refined,
			r.Promoted,
		))
	}

	return sb.String()
}
