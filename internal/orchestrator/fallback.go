package orchestrator

import (
	"math"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/search"
)

// State is a step of the fallback policy.
type State string

// Fallback states. Transitions only move forward.
const (
	StatePrimary          State = "primary"
	StateWidenedWindow    State = "widened_window"
	StateRelaxedTolerance State = "relaxed_tolerance"
	StateExhausted        State = "exhausted"
)

// RelaxedTolerance is the padekyata tolerance floor of the relaxed attempt, in degrees.
const RelaxedTolerance = 3.0

// Next returns the state to try after an attempt in s found no candidates,
// with the parameters for it. States whose escalation would repeat the
// previous attempt are skipped. The trine rule is never relaxed.
func Next(s State, p search.Params) (State, search.Params) {
	switch s {
	case StatePrimary:
		if !p.Window.IsFullDay() {
			p.Window = domain.FullDay
			return StateWidenedWindow, p
		}
		return Next(StateWidenedWindow, p)
	case StateWidenedWindow:
		if p.StrictMode || p.Tolerance < RelaxedTolerance {
			p.StrictMode = false
			p.Tolerance = math.Max(p.Tolerance, RelaxedTolerance)
			return StateRelaxedTolerance, p
		}
		return StateExhausted, p
	default:
		return StateExhausted, p
	}
}
