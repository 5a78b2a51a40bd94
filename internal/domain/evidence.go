package domain

// Evidence carries the optional corroborating inputs. A nil field means the
// category was not supplied.
type Evidence struct {
	Traits      *PhysicalTraits `json:"traits,omitempty" yaml:"traits,omitempty"`
	Marriages   *EventYears     `json:"marriages,omitempty" yaml:"marriages,omitempty"`
	Children    *EventYears     `json:"children,omitempty" yaml:"children,omitempty"`
	Career      *EventYears     `json:"career,omitempty" yaml:"career,omitempty"`
	MajorEvents *EventYears     `json:"major_events,omitempty" yaml:"major_events,omitempty"`
	Siblings    *Siblings       `json:"siblings,omitempty" yaml:"siblings,omitempty"`
	Parents     *Parents        `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// HasLifeEvents reports whether any life-event category is present.
func (e *Evidence) HasLifeEvents() bool {
	if e == nil {
		return false
	}
	return e.Marriages != nil || e.Children != nil || e.Career != nil ||
		e.MajorEvents != nil || e.Siblings != nil || e.Parents != nil
}

// Height values.
const (
	HeightShort  = "short"
	HeightMedium = "medium"
	HeightTall   = "tall"
)

// Build values.
const (
	BuildThin   = "thin"
	BuildMedium = "medium"
	BuildHeavy  = "heavy"
)

// Complexion values.
const (
	ComplexionFair     = "fair"
	ComplexionWheatish = "wheatish"
	ComplexionDark     = "dark"
)

// PhysicalTraits describes observed physical features. Empty strings are unknown.
type PhysicalTraits struct {
	Height     string `json:"height,omitempty" yaml:"height,omitempty"`
	Build      string `json:"build,omitempty" yaml:"build,omitempty"`
	Complexion string `json:"complexion,omitempty" yaml:"complexion,omitempty"`
}

// EventYears lists the calendar years in which events of one kind occurred.
type EventYears struct {
	Years []int `json:"years" yaml:"years"`
}

// Siblings counts elder and younger siblings.
type Siblings struct {
	Elder   int `json:"elder" yaml:"elder"`
	Younger int `json:"younger" yaml:"younger"`
}

// Parents records the years a parent passed away, when applicable.
type Parents struct {
	FatherPassedYear *int `json:"father_passed_year,omitempty" yaml:"father_passed_year,omitempty"`
	MotherPassedYear *int `json:"mother_passed_year,omitempty" yaml:"mother_passed_year,omitempty"`
}
