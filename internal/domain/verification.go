package domain

// PurificationAnchor identifies which point purified the ascendant.
type PurificationAnchor string

// Purification anchors, in priority order.
const (
	AnchorPranapada      PurificationAnchor = "pranapada"
	AnchorMoon           PurificationAnchor = "moon"
	AnchorGulika         PurificationAnchor = "gulika"
	AnchorGulikaOpposite PurificationAnchor = "gulika-opposite"
	AnchorMoonFallback   PurificationAnchor = "moon-fallback"
	AnchorNone           PurificationAnchor = "none"
)

// NonHumanBand classifies a trine failure by sign distance.
type NonHumanBand string

// Non-human bands. Used only for diagnostics, never for acceptance.
const (
	BandNone NonHumanBand = ""
	BandA    NonHumanBand = "A" // sign offset 2, 6, 10
	BandB    NonHumanBand = "B" // sign offset 3, 7, 11
	BandC    NonHumanBand = "C" // sign offset 1, 5, 9
)

// Description names the band the way the classical texts do.
func (b NonHumanBand) Description() string {
	switch b {
	case BandA:
		return "quadruped birth (band A)"
	case BandB:
		return "bird birth (band B)"
	case BandC:
		return "plant birth (band C)"
	default:
		return ""
	}
}

// PadekyataSource records which pranapada form matched the ascendant.
type PadekyataSource string

// Padekyata match sources.
const (
	PadekyataSphuta PadekyataSource = "sphuta"
	PadekyataMadhya PadekyataSource = "madhya"
	PadekyataBoth   PadekyataSource = "both"
	PadekyataNone   PadekyataSource = "none"
)

// RejectionClass names the single gate responsible for a rejection.
type RejectionClass string

// Rejection classes, in diagnostic priority order.
const (
	RejectNone         RejectionClass = ""
	RejectTrine        RejectionClass = "trine"
	RejectPadekyata    RejectionClass = "padekyata"
	RejectPurification RejectionClass = "purification"
)

// VerificationRecord is the structured outcome of the hard filter for one instant.
type VerificationRecord struct {
	PassesTrineRule bool
	SignDiff        int // (lagnaSign - pranapadaSign) mod 12
	NonHumanBand    NonHumanBand

	PassesPadekyata bool
	PadekyataSource PadekyataSource
	PadekyataDelta  float64 // degrees between lagna and sphuta pranapada
	MadhyaDelta     *float64
	ToleranceUsed   float64

	PurificationAnchor PurificationAnchor

	// Sub-scores, 0-100.
	DegreeMatch       float64
	GulikaAlignment   float64
	MoonAlignment     float64
	FallbackScore     float64
	VerificationScore float64

	Rejection RejectionClass
	Reason    string
}

// Accepted reports whether all three gates passed.
func (r VerificationRecord) Accepted() bool {
	return r.PassesTrineRule && r.PassesPadekyata && r.PurificationAnchor != AnchorNone
}
