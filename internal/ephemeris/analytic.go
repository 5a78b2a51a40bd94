package ephemeris

import (
	"fmt"
	"math"
	"time"

	"rectification-lab/internal/angle"
	"rectification-lab/internal/domain"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	j2000 = 2451545.0

	// Lahiri ayanamsa at J2000 and its precession rate per Julian century.
	lahiriAtJ2000   = 23.85306
	precessionRateC = 1.3969713

	// Apparent altitude of the Sun's upper limb at rise/set, with refraction.
	sunriseAltitude = -0.833

	sunriseScanSteps = 289 // five-minute samples across the local day
	sunriseTolerance = time.Second
)

// Analytic is a low-precision closed-form ephemeris. Sun and Moon are good to
// roughly a hundredth and a tenth of a degree; planets to a fraction of a degree
// over 1800-2050. It is stateless and safe for concurrent use.
type Analytic struct{}

// NewAnalytic creates the analytic ephemeris.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// Compile-time interface check.
var _ Provider = (*Analytic)(nil)

func julianDay(t time.Time) float64 {
	return float64(t.UnixNano())/float64(24*time.Hour) + 2440587.5
}

func centuries(jd float64) float64 {
	return (jd - j2000) / 36525
}

// Ayanamsa returns the Lahiri ayanamsa in degrees at t.
func Ayanamsa(t time.Time) float64 {
	return lahiriAtJ2000 + precessionRateC*centuries(julianDay(t))
}

func sinD(x float64) float64 { return math.Sin(x * deg2rad) }
func cosD(x float64) float64 { return math.Cos(x * deg2rad) }

func meanObliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T
}

// sunTropical returns the apparent tropical longitude of the Sun and the true obliquity.
func sunTropical(T float64) (lon, obliquity float64) {
	l0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	m := 357.52911 + 35999.05029*T - 0.0001537*T*T
	c := (1.914602-0.004817*T-0.000014*T*T)*sinD(m) +
		(0.019993-0.000101*T)*sinD(2*m) +
		0.000289*sinD(3*m)
	omega := 125.04 - 1934.136*T
	lon = angle.Normalize(l0 + c - 0.00569 - 0.00478*sinD(omega))
	obliquity = meanObliquity(T) + 0.00256*cosD(omega)
	return lon, obliquity
}

// moonTropical returns the tropical longitude of the Moon from the principal
// periodic terms of the lunar theory.
func moonTropical(T float64) float64 {
	lp := 218.3164477 + 481267.88123421*T
	d := 297.8501921 + 445267.1114034*T
	m := 357.5291092 + 35999.0502909*T
	mp := 134.9633964 + 477198.8675055*T
	f := 93.2720950 + 483202.0175233*T

	sum := 6.288774*sinD(mp) +
		1.274027*sinD(2*d-mp) +
		0.658314*sinD(2*d) +
		0.213618*sinD(2*mp) -
		0.185116*sinD(m) -
		0.114332*sinD(2*f) +
		0.058793*sinD(2*d-2*mp) +
		0.057066*sinD(2*d-m-mp) +
		0.053322*sinD(2*d+mp) +
		0.045758*sinD(2*d-m) -
		0.040923*sinD(m-mp) -
		0.034720*sinD(d) -
		0.030383*sinD(m+mp) +
		0.015327*sinD(2*d-2*f) -
		0.012528*sinD(mp+2*f) +
		0.010980*sinD(mp-2*f) +
		0.010675*sinD(4*d-mp) +
		0.010034*sinD(3*mp) +
		0.008548*sinD(4*d-2*mp) -
		0.007888*sinD(2*d+m-mp) -
		0.006766*sinD(2*d+m) -
		0.005163*sinD(d-mp) +
		0.004987*sinD(d+m) +
		0.004036*sinD(2*d-m+mp)
	return angle.Normalize(lp + sum)
}

// meanNodeTropical returns the tropical longitude of the mean ascending lunar node.
func meanNodeTropical(T float64) float64 {
	return angle.Normalize(125.0445479 - 1934.1362891*T + 0.0020754*T*T)
}

// keplerElements are mean orbital elements at J2000 (ecliptic and equinox J2000)
// and their rates per Julian century.
type keplerElements struct {
	a, e, i, l, peri, node                   float64
	aDot, eDot, iDot, lDot, periDot, nodeDot float64
}

var (
	earthElements = keplerElements{
		1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
		0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0,
	}
	planetElements = map[domain.Planet]keplerElements{
		domain.Mercury: {
			0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
			0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081,
		},
		domain.Venus: {
			0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
			0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418,
		},
		domain.Mars: {
			1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
			0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343,
		},
		domain.Jupiter: {
			5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
			-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106,
		},
		domain.Saturn: {
			9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
			-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794,
		},
	}
)

// heliocentric returns J2000 ecliptic rectangular coordinates in AU.
func (k keplerElements) heliocentric(T float64) (x, y, z float64) {
	a := k.a + k.aDot*T
	e := k.e + k.eDot*T
	inc := (k.i + k.iDot*T) * deg2rad
	l := k.l + k.lDot*T
	peri := k.peri + k.periDot*T
	node := k.node + k.nodeDot*T

	w := (peri - node) * deg2rad
	om := node * deg2rad
	m := math.Mod(l-peri, 360)
	if m > 180 {
		m -= 360
	} else if m < -180 {
		m += 360
	}
	mRad := m * deg2rad

	ecc := mRad + e*math.Sin(mRad)
	for i := 0; i < 12; i++ {
		delta := (ecc - e*math.Sin(ecc) - mRad) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}

	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(om), math.Sin(om)
	ci, si := math.Cos(inc), math.Sin(inc)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// planetTropical returns the geocentric tropical longitude of date for a planet.
func planetTropical(p domain.Planet, T float64) float64 {
	ex, ey, _ := earthElements.heliocentric(T)
	px, py, _ := planetElements[p].heliocentric(T)
	lonJ2000 := math.Atan2(py-ey, px-ex) * rad2deg
	return angle.Normalize(lonJ2000 + precessionRateC*T)
}

// PlanetaryLongitudes returns sidereal (Lahiri) longitudes of the nine grahas.
func (a *Analytic) PlanetaryLongitudes(t time.Time) (domain.PlanetaryPositions, error) {
	T := centuries(julianDay(t))
	ayan := lahiriAtJ2000 + precessionRateC*T

	sun, _ := sunTropical(T)
	rahu := angle.Normalize(meanNodeTropical(T) - ayan)

	pos := domain.PlanetaryPositions{
		domain.Sun:  angle.Normalize(sun - ayan),
		domain.Moon: angle.Normalize(moonTropical(T) - ayan),
		domain.Rahu: rahu,
		domain.Ketu: angle.Normalize(rahu + 180),
	}
	for p := range planetElements {
		pos[p] = angle.Normalize(planetTropical(p, T) - ayan)
	}
	return pos, nil
}

// localSiderealTime returns the local apparent sidereal time in degrees.
func localSiderealTime(jd, lon float64) float64 {
	T := centuries(jd)
	gmst := 280.46061837 + 360.98564736629*(jd-j2000) + 0.000387933*T*T - T*T*T/38710000
	return angle.Normalize(gmst + lon)
}

// SiderealAscendant returns the sidereal ascendant at t for the location.
func (a *Analytic) SiderealAscendant(t time.Time, lat, lon float64) (float64, error) {
	if math.Abs(lat) >= 89.99 {
		return 0, &AstronomicalError{Op: "ascendant", Date: t, Lat: lat, Lon: lon,
			Err: fmt.Errorf("ascendant undefined at latitude %.4f", lat)}
	}
	jd := julianDay(t)
	T := centuries(jd)
	_, eps := sunTropical(T)
	ramc := localSiderealTime(jd, lon)

	y := cosD(ramc)
	x := -(sinD(ramc)*cosD(eps) + math.Tan(lat*deg2rad)*sinD(eps))
	asc := math.Atan2(y, x) * rad2deg
	return angle.Normalize(asc - (lahiriAtJ2000 + precessionRateC*T)), nil
}

// sunAltitude returns the Sun's geometric altitude in degrees at t.
func sunAltitude(t time.Time, lat, lon float64) float64 {
	jd := julianDay(t)
	T := centuries(jd)
	lambda, eps := sunTropical(T)

	ra := math.Atan2(cosD(eps)*sinD(lambda), cosD(lambda)) * rad2deg
	dec := math.Asin(sinD(eps)*sinD(lambda)) * rad2deg
	ha := localSiderealTime(jd, lon) - ra

	sinAlt := sinD(lat)*sinD(dec) + cosD(lat)*cosD(dec)*cosD(ha)
	return math.Asin(sinAlt) * rad2deg
}

// SunriseSunset brackets and bisects the Sun's altitude across the local day.
func (a *Analytic) SunriseSunset(date time.Time, lat, lon float64, offset time.Duration) (time.Time, time.Time, error) {
	loc := time.FixedZone("", int(offset/time.Second))
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	alt := func(t time.Time) float64 { return sunAltitude(t, lat, lon) }

	rise, ok := findAltitudeCrossing(alt, start, end, sunriseAltitude, true)
	if !ok {
		return time.Time{}, time.Time{}, &AstronomicalError{Op: "sunrise", Date: start, Lat: lat, Lon: lon, Err: ErrNoSunrise}
	}
	set, ok := findAltitudeCrossing(alt, rise, end, sunriseAltitude, false)
	if !ok {
		return time.Time{}, time.Time{}, &AstronomicalError{Op: "sunset", Date: start, Lat: lat, Lon: lon, Err: ErrNoSunrise}
	}
	return rise, set, nil
}

// findAltitudeCrossing samples [start, end] for a crossing of target in the
// requested direction and bisects the first bracket found.
func findAltitudeCrossing(f func(time.Time) float64, start, end time.Time, target float64, rising bool) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}
	crossed := func(a, b float64) bool {
		if rising {
			return a < 0 && b >= 0
		}
		return a > 0 && b <= 0
	}

	span := end.Sub(start)
	prevT := start
	prev := f(prevT) - target
	for i := 1; i < sunriseScanSteps; i++ {
		t := start.Add(span * time.Duration(i) / time.Duration(sunriseScanSteps-1))
		cur := f(t) - target
		if crossed(prev, cur) {
			lo, hi := prevT, t
			loV := prev
			for hi.Sub(lo) > sunriseTolerance {
				mid := lo.Add(hi.Sub(lo) / 2)
				midV := f(mid) - target
				if crossed(loV, midV) {
					hi = mid
				} else {
					lo, loV = mid, midV
				}
			}
			return lo.Add(hi.Sub(lo) / 2).Round(time.Second), true
		}
		prevT, prev = t, cur
	}
	return time.Time{}, false
}
