package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ansitzplaner/internal/modules/hunting/domain"
	huntingout "ansitzplaner/internal/modules/hunting/port/out"
	"ansitzplaner/internal/platform/markdown"
	"ansitzplaner/internal/platform/slug"
)

const journalSchemaVersion = 1

// MarkdownJournal writes one note per closed session under
// <dir>/YYYY/MM/DD/HHMMSS-<stand>.md, dated in the given location.
type MarkdownJournal struct {
	dir string
	loc *time.Location
}

func NewMarkdownJournal(dir string, loc *time.Location) huntingout.Journal {
	if loc == nil {
		loc = time.UTC
	}
	return &MarkdownJournal{dir: dir, loc: loc}
}

func (j *MarkdownJournal) Write(_ context.Context, session domain.Session, standName string) (string, error) {
	start := session.Start.In(j.loc)
	dir := filepath.Join(j.dir, start.Format("2006"), start.Format("01"), start.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", start.Format("150405"), slug.Make(standName)))

	meta := map[string]any{
		"schema_version": journalSchemaVersion,
		"id":             session.ID,
		"revier_id":      session.GroundID,
		"einrichtung_id": session.StandID,
		"jaeger_id":      session.HunterID,
		"beginn":         session.Start.Format(time.RFC3339),
		"dauer_minuten":  int(session.Duration().Minutes()),
		"erfolg":         session.Success,
		"beobachtungen":  len(session.Sightings),
	}
	if session.End != nil {
		meta["ende"] = session.End.Format(time.RFC3339)
	}
	if session.Conditions.MoonPhase != nil {
		meta["mondphase"] = *session.Conditions.MoonPhase
	}
	rendered, err := markdown.RenderFrontmatter(meta, j.body(session, standName))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func (j *MarkdownJournal) body(s domain.Session, standName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ansitz %s\n\n", s.Start.In(j.loc).Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "- Einrichtung: %s\n", standName)
	fmt.Fprintf(&b, "- Dauer: %d Minuten\n", int(s.Duration().Minutes()))
	fmt.Fprintf(&b, "- Erfolg: %s\n", yesNo(s.Success))

	c := s.Conditions
	b.WriteString("\n## Bedingungen\n\n")
	if c.TemperatureC != nil {
		fmt.Fprintf(&b, "- Temperatur: %.1f °C\n", *c.TemperatureC)
	}
	if c.WindDirection != nil && c.WindBeaufort != nil {
		fmt.Fprintf(&b, "- Wind: %s, %d Bft\n", *c.WindDirection, *c.WindBeaufort)
	}
	fmt.Fprintf(&b, "- Niederschlag: %s\n", c.Precipitation)
	if c.MoonPhase != nil {
		fmt.Fprintf(&b, "- Mond: %s\n", *c.MoonPhase)
	}

	if len(s.Sightings) > 0 {
		b.WriteString("\n## Beobachtungen\n\n")
		for _, sg := range s.Sightings {
			fmt.Fprintf(&b, "- %s %dx %s (%s, %s)", sg.At.In(j.loc).Format("15:04"), sg.Count, sg.Species, sg.Sex, sg.Behavior)
			if sg.DistanceM != nil {
				fmt.Fprintf(&b, ", %.0f m", *sg.DistanceM)
			}
			b.WriteString("\n")
		}
	}
	if h := s.Harvest; h != nil {
		b.WriteString("\n## Abschuss\n\n")
		fmt.Fprintf(&b, "- %dx %s (%s)\n", h.Count, h.Species, h.Sex)
		if h.WeightKG != nil {
			fmt.Fprintf(&b, "- Gewicht: %.1f kg\n", *h.WeightKG)
		}
		if h.Notes != "" {
			fmt.Fprintf(&b, "- %s\n", h.Notes)
		}
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "\n## Notizen\n\n%s\n", s.Notes)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "ja"
	}
	return "nein"
}
