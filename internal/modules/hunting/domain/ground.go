package domain

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "Europe/Berlin"

// Season is an open hunting window as "MM-DD" days; To before From wraps
// over the year end.
type Season struct {
	From string `json:"von"`
	To   string `json:"bis"`
}

func (s Season) Validate() error {
	for _, d := range []string{s.From, s.To} {
		if _, err := time.Parse("01-02", d); err != nil {
			return fmt.Errorf("season day %q: want MM-DD", d)
		}
	}
	return nil
}

func (s Season) Contains(t time.Time) bool {
	day := t.Format("01-02")
	if s.From <= s.To {
		return day >= s.From && day <= s.To
	}
	return day >= s.From || day <= s.To
}

type Settings struct {
	DefaultSpecies []string           `json:"standard_wildarten"`
	Timezone       string             `json:"zeitzone"`
	Seasons        map[string]*Season `json:"jagdzeiten"`
	HeatmapEnabled *bool              `json:"heatmap_enabled"`
}

// Normalize fills the defaults a freshly created ground gets.
func (s Settings) Normalize() Settings {
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}
	if s.Seasons == nil {
		s.Seasons = map[string]*Season{}
	}
	if s.DefaultSpecies == nil {
		s.DefaultSpecies = []string{}
	}
	if s.HeatmapEnabled == nil {
		on := true
		s.HeatmapEnabled = &on
	}
	return s
}

func (s Settings) Validate() error {
	for _, sp := range s.DefaultSpecies {
		if err := ValidateSpecies(sp); err != nil {
			return err
		}
	}
	if _, err := time.LoadLocation(s.Normalize().Timezone); err != nil {
		return fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	for species, season := range s.Seasons {
		if err := ValidateSpecies(species); err != nil {
			return err
		}
		if season == nil {
			continue
		}
		if err := season.Validate(); err != nil {
			return fmt.Errorf("season for %s: %w", species, err)
		}
	}
	return nil
}

// Location falls back to UTC when the zone database lacks the timezone.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Normalize().Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s Settings) HeatmapOn() bool {
	return s.HeatmapEnabled == nil || *s.HeatmapEnabled
}

// InSeason reports whether species may be hunted at t. A species without
// a configured window, or with an explicit null, is closed.
func (s Settings) InSeason(species string, t time.Time) bool {
	season, ok := s.Seasons[species]
	if !ok || season == nil {
		return false
	}
	return season.Contains(t.In(s.Location()))
}

// Ground is a "Revier" as seen by the current user.
type Ground struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     Role     `json:"rolle"`
	Settings Settings `json:"settings"`
}

func (g Ground) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("ground id is required")
	}
	if err := g.Role.Validate(); err != nil {
		return err
	}
	return g.Settings.Validate()
}
