package domain

import (
	"fmt"
	"strings"
	"time"
)

type StandType string

const (
	StandHighSeat   StandType = "Hochsitz"
	StandPulpit     StandType = "Kanzel"
	StandDriveBlind StandType = "Drückjagdbock"
	StandLadder     StandType = "Ansitzleiter"
	StandGround     StandType = "Feldansitz"
	StandOther      StandType = "Sonstiges"
)

func (t StandType) Validate() error {
	switch t {
	case StandHighSeat, StandPulpit, StandDriveBlind, StandLadder, StandGround, StandOther:
		return nil
	default:
		return fmt.Errorf("unknown stand type: %q", t)
	}
}

type Condition string

const (
	ConditionGood   Condition = "gut"
	ConditionFair   Condition = "mittel"
	ConditionPoor   Condition = "schlecht"
	ConditionLocked Condition = "gesperrt"
)

func (c Condition) Validate() error {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor, ConditionLocked:
		return nil
	default:
		return fmt.Errorf("unknown stand condition: %q", c)
	}
}

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Position) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude out of range: %v", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude out of range: %v", p.Lng)
	}
	return nil
}

// Known reports whether the position was ever set; 0/0 is treated as missing.
func (p Position) Known() bool {
	return p.Lat != 0 || p.Lng != 0
}

// Stand is an "Ansitzeinrichtung". Deleting one never touches its sessions.
type Stand struct {
	ID              string    `json:"id"`
	GroundID        string    `json:"revier_id"`
	Type            StandType `json:"typ"`
	Name            string    `json:"name"`
	Description     string    `json:"beschreibung,omitempty"`
	Position        Position  `json:"position"`
	HeightM         *float64  `json:"hoehe_meter"`
	OrientationDeg  *float64  `json:"ausrichtung_grad"`
	VisibilityM     *float64  `json:"sichtweite_meter"`
	Condition       Condition `json:"zustand"`
	LastMaintenance string    `json:"letzte_wartung,omitempty"`
	NextMaintenance string    `json:"naechste_wartung,omitempty"`
	Notes           string    `json:"notizen,omitempty"`
	FavorableWinds  []string  `json:"guenstige_windrichtungen"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by,omitempty"`
}

func (s *Stand) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	if s.Condition == "" {
		s.Condition = ConditionGood
	}
	if s.Type == "" {
		s.Type = StandHighSeat
	}
	if s.FavorableWinds == nil {
		s.FavorableWinds = []string{}
	}
}

func (s Stand) Validate() error {
	if s.GroundID == "" {
		return fmt.Errorf("ground id is required")
	}
	if s.Name == "" || len(s.Name) > 100 {
		return fmt.Errorf("stand name must be 1-100 characters")
	}
	if err := s.Type.Validate(); err != nil {
		return err
	}
	if err := s.Condition.Validate(); err != nil {
		return err
	}
	if err := s.Position.Validate(); err != nil {
		return err
	}
	if err := inRange("height", s.HeightM, 0, 50); err != nil {
		return err
	}
	if err := inRange("orientation", s.OrientationDeg, 0, 359); err != nil {
		return err
	}
	if err := inRange("visibility", s.VisibilityM, 0, 5000); err != nil {
		return err
	}
	for _, d := range s.FavorableWinds {
		if err := ValidateWindDirection(d); err != nil {
			return err
		}
	}
	for _, date := range []string{s.LastMaintenance, s.NextMaintenance} {
		if date == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("maintenance date %q: want YYYY-MM-DD", date)
		}
	}
	return nil
}

// StandPatch carries a partial update; nil fields are left untouched.
type StandPatch struct {
	Type            *StandType `json:"typ,omitempty"`
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"beschreibung,omitempty"`
	Position        *Position  `json:"position,omitempty"`
	HeightM         *float64   `json:"hoehe_meter,omitempty"`
	OrientationDeg  *float64   `json:"ausrichtung_grad,omitempty"`
	VisibilityM     *float64   `json:"sichtweite_meter,omitempty"`
	Condition       *Condition `json:"zustand,omitempty"`
	LastMaintenance *string    `json:"letzte_wartung,omitempty"`
	NextMaintenance *string    `json:"naechste_wartung,omitempty"`
	Notes           *string    `json:"notizen,omitempty"`
	FavorableWinds  []string   `json:"guenstige_windrichtungen,omitempty"`
}

func (p StandPatch) Empty() bool {
	return p.Type == nil && p.Name == nil && p.Description == nil && p.Position == nil &&
		p.HeightM == nil && p.OrientationDeg == nil && p.VisibilityM == nil && p.Condition == nil &&
		p.LastMaintenance == nil && p.NextMaintenance == nil && p.Notes == nil && p.FavorableWinds == nil
}

func (p StandPatch) Apply(s Stand) Stand {
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Position != nil {
		s.Position = *p.Position
	}
	if p.HeightM != nil {
		s.HeightM = p.HeightM
	}
	if p.OrientationDeg != nil {
		s.OrientationDeg = p.OrientationDeg
	}
	if p.VisibilityM != nil {
		s.VisibilityM = p.VisibilityM
	}
	if p.Condition != nil {
		s.Condition = *p.Condition
	}
	if p.LastMaintenance != nil {
		s.LastMaintenance = *p.LastMaintenance
	}
	if p.NextMaintenance != nil {
		s.NextMaintenance = *p.NextMaintenance
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.FavorableWinds != nil {
		s.FavorableWinds = append([]string(nil), p.FavorableWinds...)
	}
	return s
}

func inRange(field string, v *float64, lo, hi float64) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return fmt.Errorf("%s out of range [%v, %v]: %v", field, lo, hi, *v)
	}
	return nil
}
