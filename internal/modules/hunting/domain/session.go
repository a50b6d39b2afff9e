package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "ansitzplaner/internal/platform/errors"
)

// Conditions is the weather snapshot taken when a session starts. Nil
// fields were unknown at the time.
type Conditions struct {
	TemperatureC  *float64 `json:"temperatur_celsius"`
	WindDirection *string  `json:"windrichtung"`
	WindBeaufort  *int     `json:"windstaerke_bft"`
	Precipitation string   `json:"niederschlag"`
	CloudCoverPct *float64 `json:"bewoelkung_prozent"`
	PressureHPa   *float64 `json:"luftdruck_hpa"`
	MoonPhase     *string  `json:"mondphase"`
	Visibility    *string  `json:"sichtweite"`
}

func (c Conditions) withDefaults() Conditions {
	if c.Precipitation == "" {
		c.Precipitation = "kein"
	}
	return c
}

func (c Conditions) Validate() error {
	if err := inRange("temperature", c.TemperatureC, -40, 50); err != nil {
		return err
	}
	if c.WindDirection != nil {
		if err := ValidateWindDirection(*c.WindDirection); err != nil {
			return err
		}
	}
	if c.WindBeaufort != nil && (*c.WindBeaufort < 0 || *c.WindBeaufort > 12) {
		return fmt.Errorf("beaufort out of range: %d", *c.WindBeaufort)
	}
	switch c.Precipitation {
	case "", "kein", "leicht", "mittel", "stark":
	default:
		return fmt.Errorf("unknown precipitation: %q", c.Precipitation)
	}
	if err := inRange("cloud cover", c.CloudCoverPct, 0, 100); err != nil {
		return err
	}
	return inRange("pressure", c.PressureHPa, 900, 1100)
}

// Sighting is a "Beobachtung"; immutable once recorded.
type Sighting struct {
	ID        string    `json:"id"`
	SessionID string    `json:"ansitz_id"`
	GroundID  string    `json:"revier_id"`
	Species   string    `json:"wildart"`
	Count     int       `json:"anzahl"`
	Sex       Sex       `json:"geschlecht"`
	Behavior  Behavior  `json:"verhalten"`
	Position  *Position `json:"position"`
	At        time.Time `json:"uhrzeit"`
	DistanceM *float64  `json:"entfernung_meter"`
	Notes     string    `json:"notizen,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Sighting) Validate() error {
	if err := ValidateSpecies(s.Species); err != nil {
		return err
	}
	if s.Count < 1 || s.Count > 999 {
		return fmt.Errorf("sighting count must be 1-999, got %d", s.Count)
	}
	if err := s.Sex.Validate(); err != nil {
		return err
	}
	if err := s.Behavior.Validate(); err != nil {
		return err
	}
	if s.Position != nil {
		if err := s.Position.Validate(); err != nil {
			return err
		}
	}
	return inRange("distance", s.DistanceM, 0, 5000)
}

// Harvest is an "Abschuss"; a session holds at most one.
type Harvest struct {
	Species  string   `json:"wildart"`
	Count    int      `json:"anzahl"`
	Sex      Sex      `json:"geschlecht"`
	AgeYears *float64 `json:"alter_jahre"`
	WeightKG *float64 `json:"gewicht_kg"`
	Notes    string   `json:"notizen,omitempty"`
}

func (h Harvest) Validate() error {
	if err := ValidateSpecies(h.Species); err != nil {
		return err
	}
	if h.Count < 1 || h.Count > 99 {
		return fmt.Errorf("harvest count must be 1-99, got %d", h.Count)
	}
	if err := h.Sex.Validate(); err != nil {
		return err
	}
	if err := inRange("weight", h.WeightKG, 0, 500); err != nil {
		return err
	}
	return inRange("age", h.AgeYears, 0, 30)
}

// HarvestDetails are the shot report fields that are folded into the
// harvest note.
type HarvestDetails struct {
	Weapon   string
	Caliber  string
	Hit      string
	Tracking string
	Note     string
}

func (d HarvestDetails) Summary() string {
	parts := make([]string, 0, 5)
	add := func(label, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if label == "" {
			parts = append(parts, v)
			return
		}
		parts = append(parts, label+": "+v)
	}
	add("Waffe", d.Weapon)
	add("Kaliber", d.Caliber)
	add("Treffer", d.Hit)
	add("Nachsuche", d.Tracking)
	add("", d.Note)
	return strings.Join(parts, " · ")
}

// Session is an "Ansitz". End stays nil while the session is active; a
// session is closed exactly once.
type Session struct {
	ID         string     `json:"id"`
	GroundID   string     `json:"revier_id"`
	StandID    string     `json:"ansitzeinrichtung_id"`
	HunterID   string     `json:"jaeger_id"`
	Date       string     `json:"datum"`
	Start      time.Time  `json:"beginn"`
	End        *time.Time `json:"ende"`
	Conditions Conditions `json:"bedingungen"`
	Success    bool       `json:"erfolg"`
	Harvest    *Harvest   `json:"abschuss"`
	Sightings  []Sighting `json:"beobachtungen"`
	Notes      string     `json:"notizen,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewSession opens a session at start. Date is the calendar day of start in
// loc.
func NewSession(id, groundID, standID, hunterID string, start time.Time, loc *time.Location, cond Conditions) (Session, error) {
	if id == "" || groundID == "" || standID == "" {
		return Session{}, fmt.Errorf("session, ground and stand ids are required: %w", apperrors.ErrInvalidInput)
	}
	cond = cond.withDefaults()
	if err := cond.Validate(); err != nil {
		return Session{}, fmt.Errorf("validate conditions: %v: %w", err, apperrors.ErrInvalidInput)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Session{
		ID:         id,
		GroundID:   groundID,
		StandID:    standID,
		HunterID:   hunterID,
		Date:       start.In(loc).Format(time.DateOnly),
		Start:      start,
		Conditions: cond,
		Sightings:  []Sighting{},
		CreatedAt:  start,
	}, nil
}

func (s Session) Active() bool {
	return s.End == nil
}

func (s *Session) AddSighting(sg Sighting) error {
	if !s.Active() {
		return apperrors.ErrSessionClosed
	}
	if sg.Sex == "" {
		sg.Sex = SexUnknown
	}
	if err := sg.Validate(); err != nil {
		return fmt.Errorf("validate sighting: %v: %w", err, apperrors.ErrInvalidInput)
	}
	sg.SessionID = s.ID
	sg.GroundID = s.GroundID
	s.Sightings = append(s.Sightings, sg)
	return nil
}

func (s *Session) SetHarvest(h Harvest) error {
	if !s.Active() {
		return apperrors.ErrSessionClosed
	}
	if s.Harvest != nil {
		return apperrors.ErrHarvestExists
	}
	if h.Count == 0 {
		h.Count = 1
	}
	if err := h.Validate(); err != nil {
		return fmt.Errorf("validate harvest: %v: %w", err, apperrors.ErrInvalidInput)
	}
	s.Harvest = &h
	s.Success = true
	return nil
}

// Close ends the session. Success is the explicit flag or a recorded
// harvest.
func (s *Session) Close(end time.Time, success bool, notes string) error {
	if !s.Active() {
		return apperrors.ErrSessionClosed
	}
	if end.Before(s.Start) {
		return fmt.Errorf("end %s before start %s: %w", end.Format(time.RFC3339), s.Start.Format(time.RFC3339), apperrors.ErrInvalidInput)
	}
	s.End = &end
	s.Success = success || s.Harvest != nil
	if notes = strings.TrimSpace(notes); notes != "" {
		s.Notes = notes
	}
	return nil
}

// Duration is zero for active sessions.
func (s Session) Duration() time.Duration {
	if s.End == nil {
		return 0
	}
	return s.End.Sub(s.Start)
}

// HasSpecies matches sightings and the harvest.
func (s Session) HasSpecies(species string) bool {
	if s.Harvest != nil && s.Harvest.Species == species {
		return true
	}
	for _, sg := range s.Sightings {
		if sg.Species == species {
			return true
		}
	}
	return false
}
