package specialpoint

import (
	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/timeunit"
)

// BhavaLagna advances from the Sun by one sign per five ghatis.
func BhavaLagna(sun float64, gp timeunit.GhatiPala) float64 {
	return angle.Normalize(sun + gp.FractionalGhatis()/5*30)
}

// HoraLagna advances from the Sun by one sign per two and a half ghatis.
func HoraLagna(sun float64, gp timeunit.GhatiPala) float64 {
	return angle.Normalize(sun + gp.FractionalGhatis()/2.5*30)
}

// GhatiLagna advances from the Sun by one sign per ghati and two degrees per pala.
func GhatiLagna(sun float64, gp timeunit.GhatiPala) float64 {
	return angle.Normalize(sun + float64(gp.Ghatis)*30 + gp.PalasInGhati()*2)
}

// VarnadaSign combines the 1-based sign numbers of the birth lagna and the
// hora lagna. Same parity sums them (wrapping past 12); differing parity maps
// the even number to its odd counterpart (13 - n) and takes the absolute
// difference. An even result is then reflected to 12 - n and floored at 1.
// The reflection keeps parity, so an even sum stays even: the result is a
// sign number in [1, 12], not necessarily odd.
func VarnadaSign(lagnaSign, horaSign int) int {
	l := angle.ModSign(lagnaSign-1) + 1
	h := angle.ModSign(horaSign-1) + 1

	var n int
	if l%2 == h%2 {
		n = angle.ModSign(l+h-1) + 1
	} else {
		if l%2 == 0 {
			l = 13 - l
		} else {
			h = 13 - h
		}
		n = l - h
		if n < 0 {
			n = -n
		}
	}
	if n%2 == 0 {
		n = 12 - n
	}
	if n < 1 {
		n = 1
	}
	return n
}

// VarnadaLagna places the lagna's degree within the Varnada sign.
func VarnadaLagna(lagna, hora float64) float64 {
	sign := VarnadaSign(angle.SignIndex(lagna)+1, angle.SignIndex(hora)+1)
	return float64(sign-1)*30 + angle.DegreesInSign(lagna)
}

// SpecialLagnas computes all four special lagnas.
func SpecialLagnas(lagna, sun float64, gp timeunit.GhatiPala) domain.SpecialLagnas {
	hora := HoraLagna(sun, gp)
	return domain.SpecialLagnas{
		Bhava:   BhavaLagna(sun, gp),
		Hora:    hora,
		Ghati:   GhatiLagna(sun, gp),
		Varnada: VarnadaLagna(lagna, hora),
	}
}
