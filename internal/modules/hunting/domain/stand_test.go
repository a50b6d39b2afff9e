package domain

import (
	"testing"
	"time"
)

func TestStandNormalizeAndValidate(t *testing.T) {
	t.Parallel()
	s := Stand{GroundID: "g-1", Name: "  Eichenkanzel ", Position: Position{Lat: 51.2, Lng: 10.4}}
	s.Normalize()
	if s.Name != "Eichenkanzel" || s.Condition != ConditionGood || s.Type != StandHighSeat {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	height := 60.0
	bad := s
	bad.HeightM = &height
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected height range error")
	}
	bad = s
	bad.FavorableWinds = []string{"NNE"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected wind direction error")
	}
	bad = s
	bad.NextMaintenance = "03.10.2026"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected maintenance date error")
	}
}

func TestStandPatchApply(t *testing.T) {
	t.Parallel()
	base := Stand{ID: "st-1", GroundID: "g-1", Name: "Alt", Condition: ConditionGood, FavorableWinds: []string{"W"}}
	if !(StandPatch{}).Empty() {
		t.Fatalf("zero patch must be empty")
	}
	name := "Neu"
	locked := ConditionLocked
	patch := StandPatch{Name: &name, Condition: &locked, FavorableWinds: []string{"O", "SO"}}
	got := patch.Apply(base)
	if got.Name != "Neu" || got.Condition != ConditionLocked || len(got.FavorableWinds) != 2 {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.ID != "st-1" || got.GroundID != "g-1" {
		t.Fatalf("patch touched identity: %+v", got)
	}
	if base.Name != "Alt" {
		t.Fatalf("patch mutated the original")
	}
}

func TestSettingsSeasonsAndDefaults(t *testing.T) {
	t.Parallel()
	s := Settings{Seasons: map[string]*Season{
		SpeciesRoeDeer:  {From: "05-01", To: "01-31"},
		SpeciesRedDeer:  {From: "08-01", To: "01-31"},
		SpeciesWildBoar: nil,
	}}.Normalize()
	if s.Timezone != DefaultTimezone || !s.HeatmapOn() {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	jan := time.Date(2027, 1, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2027, 3, 10, 12, 0, 0, 0, time.UTC)
	if !s.InSeason(SpeciesRoeDeer, jan) || s.InSeason(SpeciesRoeDeer, mar) {
		t.Fatalf("wrapping season misclassified")
	}
	if s.InSeason(SpeciesWildBoar, jan) || s.InSeason(SpeciesFox, jan) {
		t.Fatalf("unconfigured species must be closed")
	}

	off := false
	if (Settings{HeatmapEnabled: &off}).HeatmapOn() {
		t.Fatalf("explicit false must disable the heatmap")
	}
	if err := (Settings{Seasons: map[string]*Season{SpeciesFox: {From: "1-1", To: "12-31"}}}).Validate(); err == nil {
		t.Fatalf("expected season format error")
	}
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleOwner, PermManageStands, true},
		{RoleHunter, PermManageStands, false},
		{RoleHunter, PermViewStatistics, true},
		{"", PermCreateSessions, true},
		{RoleBeater, PermViewStatistics, false},
		{RoleGuest, PermCreateSessions, false},
	}
	for _, tc := range cases {
		if got := tc.role.Can(tc.perm); got != tc.want {
			t.Fatalf("%q can %q = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}
