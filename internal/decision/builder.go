package decision

import (
	"rectification-lab/internal/domain"
)

// Builder constructs Input values from derived special points.
type Builder struct {
	tolerance  float64
	strictMode bool
}

// NewBuilder creates a builder for one search attempt's tolerance policy.
func NewBuilder(tolerance float64, strictMode bool) *Builder {
	return &Builder{tolerance: tolerance, strictMode: strictMode}
}

// Build creates the hard-filter input for one instant. The madhya pranapada
// is always supplied; the active (day or night) Gulika is used.
func (b *Builder) Build(lagna float64, points domain.SpecialPoints, positions domain.PlanetaryPositions) Input {
	madhya := points.MadhyaPranapada
	return Input{
		Lagna:           lagna,
		SphutaPranapada: points.SphutaPranapada,
		MadhyaPranapada: &madhya,
		Gulika:          points.ActiveGulika,
		Moon:            positions[domain.Moon],
		Tolerance:       b.tolerance,
		StrictMode:      b.strictMode,
	}
}

// Tolerance returns the configured non-strict tolerance.
func (b *Builder) Tolerance() float64 { return b.tolerance }

// StrictMode reports whether the builder produces strict inputs.
func (b *Builder) StrictMode() bool { return b.strictMode }
