package domain

import (
	"math"
	"time"
)

// SunTimes holds the solar events of the day containing t. Zero values mean
// the event does not happen (polar day or night).
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
	Dawn    time.Time
	Dusk    time.Time
}

const (
	sunriseAngle   = -0.833
	civilDawnAngle = -6.0
	julianOffset   = 0.0009
)

func SunTimesAt(c Coordinate, t time.Time) SunTimes {
	lw := rad * -c.Lng
	phi := rad * c.Lat

	d := toDays(t)
	n := math.Round(d - julianOffset - lw/(2*math.Pi))
	ds := approxTransit(0, lw, n)
	m := solarMeanAnomaly(ds)
	l := eclipticLongitude(m)
	dec := declination(l, 0)
	noon := solarTransit(ds, m, l)

	event := func(angle float64) (time.Time, time.Time) {
		w := math.Acos((math.Sin(angle*rad) - math.Sin(phi)*math.Sin(dec)) / (math.Cos(phi) * math.Cos(dec)))
		if math.IsNaN(w) {
			return time.Time{}, time.Time{}
		}
		set := solarTransit(approxTransit(w, lw, n), m, l)
		rise := noon - (set - noon)
		return fromJulian(rise), fromJulian(set)
	}

	out := SunTimes{}
	out.Sunrise, out.Sunset = event(sunriseAngle)
	out.Dawn, out.Dusk = event(civilDawnAngle)
	return out
}

func approxTransit(ht, lw, n float64) float64 {
	return julianOffset + (ht+lw)/(2*math.Pi) + n
}

func solarTransit(ds, m, l float64) float64 {
	return j2000 + ds + 0.0053*math.Sin(m) - 0.0069*math.Sin(2*l)
}

// IsHuntingHour reports whether t lies between civil dawn and civil dusk.
func IsHuntingHour(c Coordinate, t time.Time) bool {
	sun := SunTimesAt(c, t)
	if sun.Dawn.IsZero() || sun.Dusk.IsZero() {
		return false
	}
	return !t.Before(sun.Dawn) && !t.After(sun.Dusk)
}
