package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a local wall-clock time of day.
type ClockTime struct {
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// ParseClock parses "HH:MM" or "H:MM". The whole input must be consumed;
// range checks are left to Window.Validate so that "24:00" parses.
func ParseClock(s string) (ClockTime, error) {
	bad := fmt.Errorf("%w: clock %q must be HH:MM", ErrInvalidInput, s)

	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !allDigits(hh) || !allDigits(mm) {
		return ClockTime{}, bad
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return ClockTime{}, bad
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return ClockTime{}, bad
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String formats the clock as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// Window is a [Start, End) local time window. End at or before Start wraps past midnight.
// End may be 24:00 to denote the end of the day.
type Window struct {
	Start ClockTime `json:"start" yaml:"start"`
	End   ClockTime `json:"end" yaml:"end"`
}

// FullDay is the 00:00-24:00 window.
var FullDay = Window{Start: ClockTime{0, 0}, End: ClockTime{24, 0}}

// Validate rejects invalid hours/minutes and degenerate windows.
func (w Window) Validate() error {
	if w.Start.Hour < 0 || w.Start.Hour > 23 {
		return fmt.Errorf("%w: start hour %d out of range", ErrInvalidInput, w.Start.Hour)
	}
	if w.End.Hour < 0 || w.End.Hour > 24 || (w.End.Hour == 24 && w.End.Minute != 0) {
		return fmt.Errorf("%w: end hour %d out of range", ErrInvalidInput, w.End.Hour)
	}
	if w.Start.Minute < 0 || w.Start.Minute > 59 {
		return fmt.Errorf("%w: start minute %d out of range", ErrInvalidInput, w.Start.Minute)
	}
	if w.End.Minute < 0 || w.End.Minute > 59 {
		return fmt.Errorf("%w: end minute %d out of range", ErrInvalidInput, w.End.Minute)
	}
	if w.Start == w.End {
		return fmt.Errorf("%w: window %s-%s is degenerate", ErrInvalidInput, w.Start, w.End)
	}
	return nil
}

// Span returns the window length, accounting for midnight wraparound.
func (w Window) Span() time.Duration {
	span := w.End.offset() - w.Start.offset()
	if span <= 0 {
		span += 24 * time.Hour
	}
	return span
}

// IsFullDay reports whether the window covers a whole day.
func (w Window) IsFullDay() bool {
	return w.Span() >= 24*time.Hour
}

// Bounds resolves the window against a local date.
// date is truncated to its calendar day in loc.
func (w Window) Bounds(date time.Time, loc *time.Location) (start, end time.Time) {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	start = midnight.Add(w.Start.offset())
	return start, start.Add(w.Span())
}

// String formats the window as HH:MM-HH:MM.
func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
