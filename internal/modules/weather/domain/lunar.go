package domain

import (
	"math"
	"time"
)

type MoonPhase string

const (
	MoonNew        MoonPhase = "Neumond"
	MoonWaxing     MoonPhase = "zunehmend"
	MoonWaxingHalf MoonPhase = "Halbmond_zunehmend"
	MoonFull       MoonPhase = "Vollmond"
	MoonWaning     MoonPhase = "abnehmend"
	MoonWaningHalf MoonPhase = "Halbmond_abnehmend"
)

// MoonPhases lists phases in cycle order.
var MoonPhases = []MoonPhase{MoonNew, MoonWaxing, MoonWaxingHalf, MoonFull, MoonWaning, MoonWaningHalf}

// ClassifyMoonPhase buckets the phase position (0 and 1 new, 0.5 full).
// The waxing-half and full bands are deliberately skewed towards full.
func ClassifyMoonPhase(phase float64) MoonPhase {
	switch {
	case phase < 0.05 || phase >= 0.95:
		return MoonNew
	case phase < 0.25:
		return MoonWaxing
	case phase < 0.30:
		return MoonWaxingHalf
	case phase < 0.55:
		return MoonFull
	case phase < 0.75:
		return MoonWaning
	default:
		return MoonWaningHalf
	}
}

type MoonIllumination struct {
	Fraction float64
	Phase    float64
	Angle    float64
}

func (m MoonIllumination) Percent() int {
	return int(math.Round(m.Fraction * 100))
}

// MoonIlluminationAt follows the low-precision algorithm from
// Astronomy Answers (as used by suncalc).
func MoonIlluminationAt(t time.Time) MoonIllumination {
	d := toDays(t)
	s := sunCoords(d)
	m := moonCoords(d)

	const sunDist = 149598000.0
	phi := math.Acos(math.Sin(s.dec)*math.Sin(m.dec) + math.Cos(s.dec)*math.Cos(m.dec)*math.Cos(s.ra-m.ra))
	inc := math.Atan2(sunDist*math.Sin(phi), m.dist-sunDist*math.Cos(phi))
	angle := math.Atan2(math.Cos(s.dec)*math.Sin(s.ra-m.ra),
		math.Sin(s.dec)*math.Cos(m.dec)-math.Cos(s.dec)*math.Sin(m.dec)*math.Cos(s.ra-m.ra))

	sign := 1.0
	if angle < 0 {
		sign = -1
	}
	return MoonIllumination{
		Fraction: (1 + math.Cos(inc)) / 2,
		Phase:    0.5 + 0.5*inc*sign/math.Pi,
		Angle:    angle,
	}
}

// MoonPhaseAt classifies the moon at t.
func MoonPhaseAt(t time.Time) MoonPhase {
	return ClassifyMoonPhase(MoonIlluminationAt(t).Phase)
}

const (
	rad       = math.Pi / 180
	dayMs     = 1000 * 60 * 60 * 24
	j1970     = 2440588.0
	j2000     = 2451545.0
	obliquity = rad * 23.4397
)

type equatorial struct {
	ra   float64
	dec  float64
	dist float64
}

func toJulian(t time.Time) float64 {
	return float64(t.UnixMilli())/dayMs - 0.5 + j1970
}

func fromJulian(j float64) time.Time {
	return time.UnixMilli(int64(math.Round((j + 0.5 - j1970) * dayMs))).UTC()
}

func toDays(t time.Time) float64 {
	return toJulian(t) - j2000
}

func rightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(obliquity)-math.Tan(b)*math.Sin(obliquity), math.Cos(l))
}

func declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(obliquity) + math.Cos(b)*math.Sin(obliquity)*math.Sin(l))
}

func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

func eclipticLongitude(m float64) float64 {
	c := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	perihelion := rad * 102.9372
	return m + c + perihelion + math.Pi
}

func sunCoords(d float64) equatorial {
	l := eclipticLongitude(solarMeanAnomaly(d))
	return equatorial{ra: rightAscension(l, 0), dec: declination(l, 0)}
}

func moonCoords(d float64) equatorial {
	meanLong := rad * (218.316 + 13.176396*d)
	meanAnom := rad * (134.963 + 13.064993*d)
	argLat := rad * (93.272 + 13.229350*d)

	l := meanLong + rad*6.289*math.Sin(meanAnom)
	b := rad * 5.128 * math.Sin(argLat)
	return equatorial{
		ra:   rightAscension(l, b),
		dec:  declination(l, b),
		dist: 385001 - 20905*math.Cos(meanAnom),
	}
}
