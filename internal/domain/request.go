package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultStep is the default sampling resolution.
const DefaultStep = 2 * time.Minute

// MinStep is the finest sampling resolution accepted, one pala.
const MinStep = 24 * time.Second

// DefaultTolerance is one pala of longitude, in degrees.
const DefaultTolerance = 2.0

// SearchRequest describes one rectification search.
type SearchRequest struct {
	Date       time.Time     // calendar date; only Y/M/D are used
	Latitude   float64       // degrees, north positive
	Longitude  float64       // degrees, east positive
	UTCOffset  time.Duration // fixed local offset
	Window     Window
	Step       time.Duration
	StrictMode bool
	Tolerance  *float64 // degrees; nil means DefaultTolerance, 0 means exact equality
	Evidence   *Evidence
}

// Location returns the fixed zone implied by UTCOffset.
func (r SearchRequest) Location() *time.Location {
	secs := int(r.UTCOffset / time.Second)
	sign := "+"
	if secs < 0 {
		sign = "-"
	}
	abs := secs
	if abs < 0 {
		abs = -abs
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60), secs)
}

// LocalDate returns local midnight of the requested date.
func (r SearchRequest) LocalDate() time.Time {
	y, m, d := r.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Location())
}

// ToleranceOrDefault returns the caller tolerance or DefaultTolerance.
func (r SearchRequest) ToleranceOrDefault() float64 {
	if r.Tolerance == nil {
		return DefaultTolerance
	}
	return *r.Tolerance
}

// StepOrDefault returns the caller step or DefaultStep.
func (r SearchRequest) StepOrDefault() time.Duration {
	if r.Step <= 0 {
		return DefaultStep
	}
	return r.Step
}

// Validate rejects malformed requests before any search begins.
func (r SearchRequest) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.4f out of range", ErrInvalidInput, r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.4f out of range", ErrInvalidInput, r.Longitude)
	}
	if r.UTCOffset < -14*time.Hour || r.UTCOffset > 14*time.Hour {
		return fmt.Errorf("%w: utc offset %s out of range", ErrInvalidInput, r.UTCOffset)
	}
	if r.Step < 0 {
		return fmt.Errorf("%w: step must be positive", ErrInvalidInput)
	}
	if r.Step != 0 && r.Step < MinStep {
		return fmt.Errorf("%w: step %s is finer than %s", ErrInvalidInput, r.Step, MinStep)
	}
	if r.Tolerance != nil && *r.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative", ErrInvalidInput)
	}
	if err := r.Window.Validate(); err != nil {
		return err
	}
	if r.StepOrDefault() >= r.Window.Span() {
		return fmt.Errorf("%w: step %s does not fit window %s", ErrInvalidInput, r.StepOrDefault(), r.Window)
	}
	return nil
}

// ParseUTCOffset parses "+05:30", "-08:00", "05:30", "Z" or "UTC".
func ParseUTCOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" || strings.EqualFold(s, "UTC") {
		return 0, nil
	}
	sign := time.Duration(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: utc offset %q must be ±HH:MM", ErrInvalidInput, s)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: utc offset %q out of range", ErrInvalidInput, s)
	}
	return sign * (time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}
