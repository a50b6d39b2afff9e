package dto

import "time"

// Where a list was read from.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SeasonOutput struct {
	From string `json:"von"`
	To   string `json:"bis"`
}

type GroundInput struct {
	ID             string
	Name           string
	Role           string
	Timezone       string
	DefaultSpecies []string
	Seasons        map[string]SeasonOutput
	HeatmapEnabled *bool
}

type GroundOutput struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Role           string                  `json:"rolle"`
	Permissions    []string                `json:"berechtigungen"`
	Timezone       string                  `json:"zeitzone"`
	DefaultSpecies []string                `json:"standard_wildarten"`
	Seasons        map[string]SeasonOutput `json:"jagdzeiten"`
	HeatmapEnabled bool                    `json:"heatmap_enabled"`
}

// PermissionViewStatistics is the GroundOutput permission gating reports.
const PermissionViewStatistics = "statistiken_sehen"

func (g GroundOutput) Can(permission string) bool {
	for _, p := range g.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type StandInput struct {
	Type            string
	Name            string
	Description     string
	Position        Position
	HeightM         *float64
	OrientationDeg  *float64
	VisibilityM     *float64
	Condition       string
	LastMaintenance string
	NextMaintenance string
	Notes           string
	FavorableWinds  []string
}

// StandPatchInput leaves nil fields untouched.
type StandPatchInput struct {
	Type            *string
	Name            *string
	Description     *string
	Position        *Position
	HeightM         *float64
	OrientationDeg  *float64
	VisibilityM     *float64
	Condition       *string
	LastMaintenance *string
	NextMaintenance *string
	Notes           *string
	FavorableWinds  []string
}

type StandOutput struct {
	ID              string    `json:"id"`
	GroundID        string    `json:"revier_id"`
	Type            string    `json:"typ"`
	Name            string    `json:"name"`
	Description     string    `json:"beschreibung,omitempty"`
	Position        Position  `json:"position"`
	HeightM         *float64  `json:"hoehe_meter"`
	OrientationDeg  *float64  `json:"ausrichtung_grad"`
	VisibilityM     *float64  `json:"sichtweite_meter"`
	Condition       string    `json:"zustand"`
	LastMaintenance string    `json:"letzte_wartung,omitempty"`
	NextMaintenance string    `json:"naechste_wartung,omitempty"`
	Notes           string    `json:"notizen,omitempty"`
	FavorableWinds  []string  `json:"guenstige_windrichtungen"`
	CreatedAt       time.Time `json:"created_at"`
	State           string    `json:"sync_state"`
}

type StandsOutput struct {
	Stands []StandOutput `json:"stands"`
	Source string        `json:"source"`
}

// WriteOutput reports whether a mutation reached the remote store or was
// queued for replay.
type WriteOutput struct {
	Queued      bool   `json:"queued"`
	OperationID string `json:"operation_id,omitempty"`
}

type StandWriteOutput struct {
	Stand StandOutput `json:"stand"`
	WriteOutput
}

type ConditionsOutput struct {
	TemperatureC  *float64 `json:"temperatur_celsius"`
	WindDirection string   `json:"windrichtung,omitempty"`
	WindBeaufort  *int     `json:"windstaerke_bft"`
	Precipitation string   `json:"niederschlag"`
	CloudCoverPct *float64 `json:"bewoelkung_prozent"`
	PressureHPa   *float64 `json:"luftdruck_hpa"`
	MoonPhase     string   `json:"mondphase,omitempty"`
}

type SightingInput struct {
	Species   string
	Count     int
	Sex       string
	Behavior  string
	Position  *Position
	At        time.Time
	DistanceM *float64
	Notes     string
}

type SightingOutput struct {
	ID        string    `json:"id"`
	Species   string    `json:"wildart"`
	Count     int       `json:"anzahl"`
	Sex       string    `json:"geschlecht"`
	Behavior  string    `json:"verhalten"`
	Position  *Position `json:"position,omitempty"`
	At        time.Time `json:"uhrzeit"`
	DistanceM *float64  `json:"entfernung_meter,omitempty"`
	Notes     string    `json:"notizen,omitempty"`
}

type HarvestInput struct {
	Species  string
	Count    int
	Sex      string
	AgeYears *float64
	WeightKG *float64
	Weapon   string
	Caliber  string
	Hit      string
	Tracking string
	Notes    string
}

type HarvestOutput struct {
	Species  string   `json:"wildart"`
	Count    int      `json:"anzahl"`
	Sex      string   `json:"geschlecht"`
	AgeYears *float64 `json:"alter_jahre,omitempty"`
	WeightKG *float64 `json:"gewicht_kg,omitempty"`
	Notes    string   `json:"notizen,omitempty"`
}

// StartSessionInput opens a session now when Start is zero.
type StartSessionInput struct {
	StandID string
	Start   time.Time
	Notes   string
}

// EndSessionInput closes the active session now when End is zero.
type EndSessionInput struct {
	SessionID string
	End       time.Time
	Success   bool
	Notes     string
}

type SessionOutput struct {
	ID         string           `json:"id"`
	GroundID   string           `json:"revier_id"`
	StandID    string           `json:"ansitzeinrichtung_id"`
	HunterID   string           `json:"jaeger_id"`
	Date       string           `json:"datum"`
	Start      time.Time        `json:"beginn"`
	End        *time.Time       `json:"ende"`
	Conditions ConditionsOutput `json:"bedingungen"`
	Success    bool             `json:"erfolg"`
	Harvest    *HarvestOutput   `json:"abschuss"`
	Sightings  []SightingOutput `json:"beobachtungen"`
	Notes      string           `json:"notizen,omitempty"`
	State      string           `json:"sync_state,omitempty"`
}

type EndSessionOutput struct {
	Session     SessionOutput `json:"session"`
	Synced      bool          `json:"synced"`
	Queued      int           `json:"queued"`
	JournalPath string        `json:"journal_path,omitempty"`
}

type SessionsOutput struct {
	Sessions []SessionOutput `json:"sessions"`
	Source   string          `json:"source"`
}
