package domain

import (
	"sort"
	"time"
)

// DailyForecast is one day of the weekly planning view.
type DailyForecast struct {
	Date          time.Time     `json:"datum"`
	TempMinC      float64       `json:"temp_min"`
	TempMaxC      float64       `json:"temp_max"`
	PrecipMM      float64       `json:"niederschlag_mm"`
	WindMaxKMH    float64       `json:"wind_kmh"`
	WindDirection WindDirection `json:"windrichtung"`
	CloudCoverPct float64       `json:"bewoelkung"`
	Favorability  int           `json:"jagd_score"`
}

func ForecastFromReading(r DailyReading) DailyForecast {
	f := DailyForecast{
		Date:          r.Date,
		TempMinC:      r.TempMinC,
		TempMaxC:      r.TempMaxC,
		PrecipMM:      r.PrecipSumMM,
		WindMaxKMH:    r.WindMaxKMH,
		WindDirection: WindDegToCardinal(r.WindDegrees),
		CloudCoverPct: r.CloudCoverPct,
	}
	f.Favorability = Favorability(f)
	return f
}

// Favorability rates a day for hunting from a baseline of 50.
func Favorability(f DailyForecast) int {
	score := 50
	avg := (f.TempMinC + f.TempMaxC) / 2
	switch {
	case avg >= 5 && avg <= 15:
		score += 15
	case avg > 25 || avg < -5:
		score -= 15
	}
	switch {
	case f.PrecipMM <= 0:
		score += 10
	case f.PrecipMM > 2:
		score -= 20
	}
	switch bft := WindSpeedToBeaufort(f.WindMaxKMH); {
	case bft <= 3:
		score += 15
	case bft >= 6:
		score -= 15
	}
	switch {
	case f.CloudCoverPct >= 30 && f.CloudCoverPct <= 70:
		score += 10
	case f.CloudCoverPct > 90:
		score -= 10
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// BestDays returns the dates of the n most favourable days; ties keep
// calendar order.
func BestDays(days []DailyForecast, n int) []time.Time {
	sorted := append([]DailyForecast(nil), days...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Favorability > sorted[j].Favorability
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]time.Time, 0, n)
	for _, d := range sorted[:n] {
		out = append(out, d.Date)
	}
	return out
}
