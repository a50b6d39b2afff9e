package domain

import "time"

// SpeciesAll disables the species filter.
const SpeciesAll = "alle"

const (
	MoonNew  = "Neumond"
	MoonFull = "Vollmond"

	// MinDataPoints is the evidence needed before the historical success
	// rate replaces the neutral basis.
	MinDataPoints = 5
	NeutralBasis  = 50.0

	// Default search window when the caller names no hours.
	DefaultHourFrom = 5
	DefaultHourTo   = 21
)

// MoonPhaseOrder lists phases in lunar cycle order for reports.
var MoonPhaseOrder = []string{
	MoonNew,
	"zunehmend",
	"Halbmond_zunehmend",
	MoonFull,
	"abnehmend",
	"Halbmond_abnehmend",
}

// Ground carries what scoring needs from the active hunting ground.
type Ground struct {
	ID                string
	Name              string
	Location          *time.Location
	HeatmapEnabled    bool
	CanViewStatistics bool
}

type Stand struct {
	ID             string
	Name           string
	FavorableWinds []string
	Lat            float64
	Lng            float64
}

// Located reports whether the stand has a usable coordinate; 0/0 is unset.
func (s Stand) Located() bool {
	return s.Lat != 0 || s.Lng != 0
}

// Center averages the coordinates of located stands.
func Center(stands []Stand) (lat, lng float64, ok bool) {
	n := 0
	for _, s := range stands {
		if !s.Located() {
			continue
		}
		lat += s.Lat
		lng += s.Lng
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return lat / float64(n), lng / float64(n), true
}

type Sighting struct {
	Species string
	Count   int
	At      time.Time
}

// Session is the scoring view of a hunting session. End is nil while the
// session is still running.
type Session struct {
	ID             string
	StandID        string
	Start          time.Time
	End            *time.Time
	Success        bool
	MoonPhase      string
	Sightings      []Sighting
	HarvestSpecies string
}

func (s Session) Closed() bool {
	return s.End != nil
}

func (s Session) HasSpecies(species string) bool {
	if s.HarvestSpecies == species {
		return true
	}
	for _, sg := range s.Sightings {
		if sg.Species == species {
			return true
		}
	}
	return false
}

// Weather is the live snapshot; nil and empty fields are unknown and
// contribute nothing.
type Weather struct {
	WindDirection string
	PrecipMM      *float64
	TemperatureC  *float64
	CloudCoverPct *float64
}

type Params struct {
	Month     int
	HourFrom  int
	HourTo    int
	Species   string
	Weather   Weather
	MoonPhase string
	Now       time.Time
	// Location interprets session start times; nil means UTC.
	Location *time.Location
}

type Factors struct {
	Basis    int     `json:"basis"`
	Weather  float64 `json:"wetter"`
	Lunar    float64 `json:"mond"`
	Pressure float64 `json:"jagddruck"`
}

type Score struct {
	StandID    string  `json:"einrichtung_id"`
	Score      int     `json:"score"`
	DataPoints int     `json:"datenpunkte"`
	Factors    Factors `json:"faktoren"`
}

type BestTime struct {
	StandID  string `json:"einrichtung_id"`
	Score    int    `json:"score"`
	HourFrom int    `json:"stunde_von"`
	HourTo   int    `json:"stunde_bis"`
}
