// Package angle provides circular-longitude arithmetic over the 360 degree zodiac.
package angle

import (
	"math"

	"rectification-lab/internal/domain"
)

// Normalize reduces a longitude to [0, 360).
func Normalize(lon float64) float64 {
	v := math.Mod(lon, 360)
	if v < 0 {
		v += 360
	}
	// math.Mod can return 360 after adding to a tiny negative remainder.
	if v >= 360 {
		v -= 360
	}
	return v
}

// Difference returns the shortest circular distance between a and b, in [0, 180].
func Difference(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignIndex returns the 0-based sign (Aries=0 ... Pisces=11) of a longitude.
func SignIndex(lon float64) int {
	return int(math.Floor(Normalize(lon)/30)) % 12
}

// DegreesInSign returns the position within the sign, in [0, 30).
func DegreesInSign(lon float64) float64 {
	return Normalize(lon) - float64(SignIndex(lon))*30
}

// ModSign reduces a sign index to [0, 12).
func ModSign(n int) int {
	return ((n % 12) + 12) % 12
}

// Modality is the quality of a sign.
type Modality int

// Sign modalities, matching SignIndex mod 3.
const (
	Movable Modality = iota
	Fixed
	Dual
)

// SignModality returns the modality of a sign index.
func SignModality(sign int) Modality {
	return Modality(ModSign(sign) % 3)
}

// Element is the elemental triplicity of a sign.
type Element int

// Elements, matching SignIndex mod 4.
const (
	Fire Element = iota
	Earth
	Air
	Water
)

// SignElement returns the element of a sign index.
func SignElement(sign int) Element {
	return Element(ModSign(sign) % 4)
}

var signLords = [12]domain.Planet{
	domain.Mars,    // Aries
	domain.Venus,   // Taurus
	domain.Mercury, // Gemini
	domain.Moon,    // Cancer
	domain.Sun,     // Leo
	domain.Mercury, // Virgo
	domain.Venus,   // Libra
	domain.Mars,    // Scorpio
	domain.Jupiter, // Sagittarius
	domain.Saturn,  // Capricorn
	domain.Saturn,  // Aquarius
	domain.Jupiter, // Pisces
}

// SignLord returns the ruling planet of a sign index.
func SignLord(sign int) domain.Planet {
	return signLords[ModSign(sign)]
}

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// SignName returns the English name of a sign index.
func SignName(sign int) string {
	return signNames[ModSign(sign)]
}
