package domain

import (
	"math"
	"sort"
	"time"
)

type StandRank struct {
	StandID   string `json:"einrichtung_id"`
	StandName string `json:"name"`
	Total     int    `json:"gesamt"`
	Successes int    `json:"erfolge"`
	Rate      int    `json:"quote"`
}

// RankStands orders stands with at least one session by success rate,
// highest first; equal rates keep stand order.
func RankStands(stands []Stand, sessions []Session) []StandRank {
	rows := make([]StandRank, 0, len(stands))
	for _, stand := range stands {
		row := StandRank{StandID: stand.ID, StandName: stand.Name}
		for _, s := range sessions {
			if s.StandID != stand.ID {
				continue
			}
			row.Total++
			if s.Success {
				row.Successes++
			}
		}
		if row.Total == 0 {
			continue
		}
		row.Rate = percent(row.Successes, row.Total)
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate > rows[j].Rate })
	return rows
}

type MoonPhaseStat struct {
	Phase     string `json:"mondphase"`
	Total     int    `json:"gesamt"`
	Successes int    `json:"erfolge"`
	Rate      int    `json:"quote"`
}

// SuccessByMoonPhase reports phases in the given order, skipping phases
// without sessions. Sessions without a recorded phase are ignored.
func SuccessByMoonPhase(sessions []Session, order []string) []MoonPhaseStat {
	counts := map[string]*MoonPhaseStat{}
	for _, s := range sessions {
		if s.MoonPhase == "" {
			continue
		}
		st, ok := counts[s.MoonPhase]
		if !ok {
			st = &MoonPhaseStat{Phase: s.MoonPhase}
			counts[s.MoonPhase] = st
		}
		st.Total++
		if s.Success {
			st.Successes++
		}
	}
	out := make([]MoonPhaseStat, 0, len(counts))
	for _, phase := range order {
		st, ok := counts[phase]
		if !ok {
			continue
		}
		st.Rate = percent(st.Successes, st.Total)
		out = append(out, *st)
	}
	return out
}

// SightingsByHour counts sighting records per hour of day in loc.
func SightingsByHour(sessions []Session, loc *time.Location) [24]int {
	if loc == nil {
		loc = time.UTC
	}
	var counts [24]int
	for _, s := range sessions {
		for _, sg := range s.Sightings {
			counts[sg.At.In(loc).Hour()]++
		}
	}
	return counts
}

// PeakHour returns the busiest hour, or -1 when nothing was seen.
func PeakHour(counts [24]int) int {
	peak, best := -1, 0
	for h, n := range counts {
		if n > best {
			peak, best = h, n
		}
	}
	return peak
}

type Summary struct {
	Sessions     int            `json:"ansitze"`
	Successes    int            `json:"erfolge"`
	SuccessRate  int            `json:"erfolgsquote"`
	Harvests     int            `json:"abschuesse"`
	Sightings    int            `json:"beobachtungen"`
	SpeciesCount map[string]int `json:"wildarten"`
}

// Summarize aggregates sessions that started at or after since.
func Summarize(sessions []Session, since time.Time) Summary {
	sum := Summary{SpeciesCount: map[string]int{}}
	for _, s := range sessions {
		if s.Start.Before(since) {
			continue
		}
		sum.Sessions++
		if s.Success {
			sum.Successes++
		}
		if s.HarvestSpecies != "" {
			sum.Harvests++
		}
		sum.Sightings += len(s.Sightings)
		for _, sg := range s.Sightings {
			sum.SpeciesCount[sg.Species] += max(sg.Count, 1)
		}
	}
	sum.SuccessRate = percent(sum.Successes, sum.Sessions)
	return sum
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}
