package specialpoint

import (
	"math"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/timeunit"
)

// MadhyaPranapada returns the mean Pranapada: four signs per ghati and one
// sign per fifteen palas, two degrees per remaining pala.
func MadhyaPranapada(ghatis, palas int) float64 {
	rashi := angle.ModSign(ghatis*4 + palas/15)
	degrees := float64(palas%15) * 2
	return float64(rashi)*30 + degrees
}

// MadhyaFromElapsed derives the mean Pranapada from a ghati/pala reading.
func MadhyaFromElapsed(gp timeunit.GhatiPala) float64 {
	return MadhyaPranapada(gp.Ghatis, gp.Palas)
}

// SphutaPranapada returns the true Pranapada. The elapsed palas become a
// sign count (fifteen palas per sign) added to a base sign chosen by the
// Sun's modality: its own sign when movable, the ninth from it when fixed,
// the fifth from it when dual.
func SphutaPranapada(totalPalas, sunLongitude float64) float64 {
	fraction := totalPalas / 15
	offset := math.Floor(fraction)
	remainder := fraction - offset

	sunSign := angle.SignIndex(sunLongitude)
	base := sunSign
	switch angle.SignModality(sunSign) {
	case angle.Fixed:
		base = angle.ModSign(sunSign + 8)
	case angle.Dual:
		base = angle.ModSign(sunSign + 4)
	}

	final := angle.ModSign(base + int(math.Mod(offset, 12)))
	return angle.Normalize(float64(final)*30 + remainder*30)
}
