package server

import (
	"fmt"
	"time"

	"rectification-lab/internal/domain"
)

// RectifyRequest is the JSON body of a search request.
type RectifyRequest struct {
	Date       string           `json:"date"` // YYYY-MM-DD
	Latitude   float64          `json:"latitude"`
	Longitude  float64          `json:"longitude"`
	UTCOffset  string           `json:"utc_offset"` // ±HH:MM
	Start      string           `json:"start"`      // HH:MM
	End        string           `json:"end"`        // HH:MM, 24:00 allowed
	Step       string           `json:"step,omitempty"`
	StrictMode bool             `json:"strict_mode"`
	Tolerance  *float64         `json:"tolerance,omitempty"`
	Evidence   *domain.Evidence `json:"evidence,omitempty"`
}

// ToDomain converts the wire request. All failures wrap domain.ErrInvalidInput.
func (r RectifyRequest) ToDomain() (domain.SearchRequest, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	offset, err := domain.ParseUTCOffset(r.UTCOffset)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	start, err := domain.ParseClock(r.Start)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	end, err := domain.ParseClock(r.End)
	if err != nil {
		return domain.SearchRequest{}, err
	}

	var step time.Duration
	if r.Step != "" {
		step, err = time.ParseDuration(r.Step)
		if err != nil {
			return domain.SearchRequest{}, fmt.Errorf("%w: step %q: %v", domain.ErrInvalidInput, r.Step, err)
		}
	}

	return domain.SearchRequest{
		Date:       date,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		UTCOffset:  offset,
		Window:     domain.Window{Start: start, End: end},
		Step:       step,
		StrictMode: r.StrictMode,
		Tolerance:  r.Tolerance,
		Evidence:   r.Evidence,
	}, nil
}
