package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Statistics struct {
	Since      time.Time
	Summary    Summary
	Ranking    []StandRank
	MoonPhases []MoonPhaseStat
	Hours      [24]int
	PeakHour   int
}

// BuildStatistics aggregates closed sessions that started at or after since.
func BuildStatistics(stands []Stand, sessions []Session, since time.Time, loc *time.Location) Statistics {
	closed := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Closed() && !s.Start.Before(since) {
			closed = append(closed, s)
		}
	}
	hours := SightingsByHour(closed, loc)
	return Statistics{
		Since:      since,
		Summary:    Summarize(closed, since),
		Ranking:    RankStands(stands, closed),
		MoonPhases: SuccessByMoonPhase(closed, MoonPhaseOrder),
		Hours:      hours,
		PeakHour:   PeakHour(hours),
	}
}

// Markdown renders the report in German, one section per aggregate.
func (s Statistics) Markdown(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Statistik %s\n\n", title)
	if !s.Since.IsZero() {
		fmt.Fprintf(&b, "Zeitraum ab %s\n\n", s.Since.Format("02.01.2006"))
	}
	sum := s.Summary
	b.WriteString("## Überblick\n\n")
	b.WriteString("| Ansitze | Erfolge | Quote | Abschüsse | Beobachtungen |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d %% | %d | %d |\n", sum.Sessions, sum.Successes, sum.SuccessRate, sum.Harvests, sum.Sightings)

	if len(s.Ranking) > 0 {
		b.WriteString("\n## Einrichtungen\n\n")
		b.WriteString("| # | Einrichtung | Ansitze | Erfolge | Quote |\n")
		b.WriteString("|---:|---|---:|---:|---:|\n")
		for i, r := range s.Ranking {
			fmt.Fprintf(&b, "| %d | %s | %d | %d | %d %% |\n", i+1, r.StandName, r.Total, r.Successes, r.Rate)
		}
	}

	if len(s.MoonPhases) > 0 {
		b.WriteString("\n## Mondphasen\n\n")
		b.WriteString("| Mondphase | Ansitze | Quote |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, m := range s.MoonPhases {
			fmt.Fprintf(&b, "| %s | %d | %d %% |\n", strings.ReplaceAll(m.Phase, "_", " "), m.Total, m.Rate)
		}
	}

	if len(sum.SpeciesCount) > 0 {
		species := make([]string, 0, len(sum.SpeciesCount))
		for name := range sum.SpeciesCount {
			species = append(species, name)
		}
		sort.Slice(species, func(i, j int) bool {
			a, c := sum.SpeciesCount[species[i]], sum.SpeciesCount[species[j]]
			if a != c {
				return a > c
			}
			return species[i] < species[j]
		})
		b.WriteString("\n## Wildarten\n\n")
		for _, name := range species {
			fmt.Fprintf(&b, "- %s: %d\n", name, sum.SpeciesCount[name])
		}
	}

	if s.PeakHour >= 0 {
		b.WriteString("\n## Tageszeit\n\n")
		fmt.Fprintf(&b, "Meiste Beobachtungen zwischen %02d:00 und %02d:00 Uhr (%d).\n", s.PeakHour, (s.PeakHour+1)%24, s.Hours[s.PeakHour])
	}
	return b.String()
}
