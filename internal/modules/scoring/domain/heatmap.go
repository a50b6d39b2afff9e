package domain

import (
	"math"
	"time"
)

// CalculateHeatmapScores scores every stand independently. It is total over
// well-formed input: no stands yields no scores, no sessions yields the
// neutral basis.
func CalculateHeatmapScores(stands []Stand, sessions []Session, p Params) []Score {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	from := max(0, p.HourFrom-1)
	to := min(23, p.HourTo+1)

	out := make([]Score, 0, len(stands))
	for _, stand := range stands {
		here := make([]Session, 0)
		for _, s := range sessions {
			if s.StandID == stand.ID {
				here = append(here, s)
			}
		}

		dataPoints, successes := 0, 0
		for _, s := range here {
			if p.Species != "" && p.Species != SpeciesAll && !s.HasSpecies(p.Species) {
				continue
			}
			start := s.Start.In(loc)
			if !monthWithin(int(start.Month()), p.Month) {
				continue
			}
			if h := start.Hour(); h < from || h > to {
				continue
			}
			dataPoints++
			if s.Success {
				successes++
			}
		}

		basis := NeutralBasis
		if dataPoints >= MinDataPoints {
			basis = float64(successes) / float64(dataPoints) * 100
		}
		w := weatherFactor(stand, p.Weather)
		l := lunarFactor(p.MoonPhase)
		pr := pressureFactor(here, p.Now)

		out = append(out, Score{
			StandID:    stand.ID,
			Score:      int(roundHalfUp(clamp(basis*w*l*pr, 0, 100))),
			DataPoints: dataPoints,
			Factors: Factors{
				Basis:    int(roundHalfUp(basis)),
				Weather:  round2(w),
				Lunar:    round2(l),
				Pressure: round2(pr),
			},
		})
	}
	return out
}

// monthWithin treats months as circular, so December and January are
// adjacent.
func monthWithin(month, target int) bool {
	diff := month - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1 || diff >= 11
}

func weatherFactor(stand Stand, w Weather) float64 {
	f := 1.0
	if w.WindDirection != "" && len(stand.FavorableWinds) > 0 {
		favorable := false
		for _, d := range stand.FavorableWinds {
			if d == w.WindDirection {
				favorable = true
				break
			}
		}
		if favorable {
			f += 0.2
		} else {
			f -= 0.15
		}
	}
	if w.PrecipMM != nil && *w.PrecipMM > 2 {
		f -= 0.2
	}
	if w.TemperatureC != nil {
		t := *w.TemperatureC
		switch {
		case t >= 5 && t <= 15:
			f += 0.1
		case t > 25 || t < -5:
			f -= 0.1
		}
	}
	if w.CloudCoverPct != nil && *w.CloudCoverPct >= 30 && *w.CloudCoverPct <= 70 {
		f += 0.05
	}
	return clamp(f, 0.5, 1.5)
}

func lunarFactor(phase string) float64 {
	switch phase {
	case MoonNew:
		return 1.1
	case MoonFull:
		return 0.85
	default:
		return 1.0
	}
}

// pressureFactor looks at every session of the stand, whatever the filters,
// and rewards rest since the latest one that started before now.
func pressureFactor(sessions []Session, now time.Time) float64 {
	var last time.Time
	for _, s := range sessions {
		if s.Start.Before(now) && s.Start.After(last) {
			last = s.Start
		}
	}
	if last.IsZero() {
		return 1.2
	}
	days := now.Sub(last).Hours() / 24
	switch {
	case days >= 7:
		return 1.2
	case days >= 3:
		return 1.0
	default:
		return 0.7
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}
