package domain

import "math"

var beaufortThresholds = [12]float64{1, 6, 12, 20, 29, 39, 50, 62, 75, 89, 103, 118}

// WindDegToCardinal maps degrees to one of eight compass points,
// round(deg/45) mod 8. Negative and >360 inputs wrap.
func WindDegToCardinal(deg float64) WindDirection {
	idx := int(math.Floor(deg/45+0.5)) % 8
	if idx < 0 {
		idx += 8
	}
	return cardinals[idx]
}

// WindSpeedToBeaufort returns the index of the first km/h threshold the
// speed stays below; hurricane force (>= 118 km/h) is 12.
func WindSpeedToBeaufort(kmh float64) int {
	for i, t := range beaufortThresholds {
		if kmh < t {
			return i
		}
	}
	return 12
}

func PrecipitationFromMM(mm float64) Precipitation {
	switch {
	case mm <= 0:
		return PrecipitationNone
	case mm <= 2:
		return PrecipitationLight
	case mm <= 10:
		return PrecipitationModerate
	default:
		return PrecipitationHeavy
	}
}
