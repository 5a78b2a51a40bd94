package domain

import "time"

// GulikaPoints holds the day and night Gulika longitudes and their clock times.
type GulikaPoints struct {
	DayLongitude   float64
	DayTime        time.Time
	DaySegment     int // 0-based eighth of the day span
	NightLongitude float64
	NightTime      time.Time
	NightSegment   int // 0-based eighth of the night span
}

// SpecialLagnas holds the four special ascendants.
type SpecialLagnas struct {
	Bhava   float64
	Hora    float64
	Ghati   float64
	Varnada float64
}

// Nisheka is the conception point with its gestation estimate.
type Nisheka struct {
	Longitude       float64
	GestationSigns  int     // 1..12
	GestationMonths float64 // equal to GestationSigns
	Realistic       bool    // months in [5.0, 10.5]
}

// SpecialPoints bundles the derived sensitive points for one instant.
// Recomputed per candidate instant and never mutated after creation.
type SpecialPoints struct {
	Gulika          GulikaPoints
	ActiveGulika    float64 // day or night Gulika that applies to the instant
	IsDayBirth      bool
	MadhyaPranapada float64
	SphutaPranapada float64
	Lagnas          SpecialLagnas
	Nisheka         Nisheka
}
