package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func closedSession(id, stand string, start time.Time, success bool) Session {
	end := start.Add(2 * time.Hour)
	return Session{ID: id, StandID: stand, Start: start, End: &end, Success: success}
}

func TestInsufficientDataUsesNeutralBasis(t *testing.T) {
	t.Parallel()
	stands := []Stand{{ID: "s1"}}
	sessions := make([]Session, 0, 4)
	for i := 0; i < 4; i++ {
		sessions = append(sessions, closedSession("a", "s1", at(2024, time.May, i+1, 6), true))
	}
	scores := CalculateHeatmapScores(stands, sessions, Params{Month: 5, HourFrom: 5, HourTo: 7, Now: at(2025, time.January, 1, 0)})
	require.Len(t, scores, 1)
	assert.Equal(t, 4, scores[0].DataPoints)
	assert.Equal(t, 50, scores[0].Factors.Basis)
}

func TestConcreteScenarioClampsToHundred(t *testing.T) {
	t.Parallel()
	stands := []Stand{{ID: "S", FavorableWinds: []string{"W", "SW"}}}
	sessions := []Session{
		closedSession("1", "S", at(2024, time.March, 1, 18), true),
		closedSession("2", "S", at(2024, time.March, 2, 19), true),
		closedSession("3", "S", at(2024, time.March, 3, 20), true),
		closedSession("4", "S", at(2024, time.March, 4, 18), true),
		closedSession("5", "S", at(2024, time.March, 5, 19), false),
		closedSession("6", "S", at(2024, time.March, 6, 20), false),
	}
	params := Params{
		Month: 3, HourFrom: 18, HourTo: 20,
		Species:   SpeciesAll,
		Weather:   Weather{WindDirection: "W"},
		MoonPhase: MoonNew,
		Now:       at(2024, time.March, 16, 20),
	}
	scores := CalculateHeatmapScores(stands, sessions, params)
	require.Len(t, scores, 1)
	got := scores[0]
	assert.Equal(t, 6, got.DataPoints)
	assert.Equal(t, 67, got.Factors.Basis)
	assert.Equal(t, 1.2, got.Factors.Weather)
	assert.Equal(t, 1.1, got.Factors.Lunar)
	assert.Equal(t, 1.2, got.Factors.Pressure)
	assert.Equal(t, 100, got.Score)
}

func TestScoresAreBoundedIntegersAndWeatherFactorClamped(t *testing.T) {
	t.Parallel()
	stand := Stand{ID: "s", FavorableWinds: []string{"N"}}
	var sessions []Session
	for i := 0; i < 8; i++ {
		sessions = append(sessions, closedSession("x", "s", at(2024, time.July, i+1, 5), true))
	}
	winds := []string{"", "N", "S"}
	precips := []*float64{nil, ptr(0), ptr(2.1), ptr(40)}
	temps := []*float64{nil, ptr(-20), ptr(5), ptr(15), ptr(26)}
	clouds := []*float64{nil, ptr(10), ptr(50), ptr(95)}
	moons := []string{"", MoonNew, MoonFull, "zunehmend"}
	for _, wd := range winds {
		for _, pr := range precips {
			for _, tc := range temps {
				for _, cl := range clouds {
					for _, moon := range moons {
						w := Weather{WindDirection: wd, PrecipMM: pr, TemperatureC: tc, CloudCoverPct: cl}
						f := weatherFactor(stand, w)
						require.GreaterOrEqual(t, f, 0.5)
						require.LessOrEqual(t, f, 1.5)
						scores := CalculateHeatmapScores([]Stand{stand}, sessions, Params{Month: 7, HourFrom: 4, HourTo: 6, Weather: w, MoonPhase: moon, Now: at(2024, time.July, 20, 0)})
						s := scores[0].Score
						require.GreaterOrEqual(t, s, 0)
						require.LessOrEqual(t, s, 100)
					}
				}
			}
		}
	}
}

func TestWeatherFactorExtremes(t *testing.T) {
	t.Parallel()
	stand := Stand{ID: "s", FavorableWinds: []string{"O"}}
	worst := weatherFactor(stand, Weather{WindDirection: "W", PrecipMM: ptr(12), TemperatureC: ptr(31), CloudCoverPct: ptr(100)})
	assert.InDelta(t, 0.55, worst, 1e-9)
	best := weatherFactor(stand, Weather{WindDirection: "O", PrecipMM: ptr(0), TemperatureC: ptr(10), CloudCoverPct: ptr(50)})
	assert.InDelta(t, 1.35, best, 1e-9)
	noWindPrefs := weatherFactor(Stand{ID: "n"}, Weather{WindDirection: "W"})
	assert.Equal(t, 1.0, noWindPrefs)
}

func TestMonthFilterWrapsAroundYearEnd(t *testing.T) {
	t.Parallel()
	stands := []Stand{{ID: "s"}}
	december := []Session{closedSession("d", "s", at(2023, time.December, 20, 7), true)}
	january := []Session{closedSession("j", "s", at(2024, time.January, 5, 7), true)}
	now := at(2024, time.June, 1, 0)

	assert.Equal(t, 1, CalculateHeatmapScores(stands, december, Params{Month: 1, HourFrom: 6, HourTo: 8, Now: now})[0].DataPoints)
	assert.Equal(t, 1, CalculateHeatmapScores(stands, january, Params{Month: 12, HourFrom: 6, HourTo: 8, Now: now})[0].DataPoints)
	assert.Equal(t, 0, CalculateHeatmapScores(stands, december, Params{Month: 2, HourFrom: 6, HourTo: 8, Now: now})[0].DataPoints)
	assert.Equal(t, 1, CalculateHeatmapScores(stands, december, Params{Month: 11, HourFrom: 6, HourTo: 8, Now: now})[0].DataPoints)
}

func TestHourBufferIsClampedToDay(t *testing.T) {
	t.Parallel()
	stands := []Stand{{ID: "s"}}
	sessions := []Session{
		closedSession("late", "s", at(2024, time.May, 1, 23), true),
		closedSession("early", "s", at(2024, time.May, 2, 2), true),
		closedSession("three", "s", at(2024, time.May, 3, 3), true),
	}
	now := at(2024, time.June, 1, 0)
	assert.Equal(t, 1, CalculateHeatmapScores(stands, sessions, Params{Month: 5, HourFrom: 0, HourTo: 1, Now: now})[0].DataPoints)
	assert.Equal(t, 1, CalculateHeatmapScores(stands, sessions, Params{Month: 5, HourFrom: 22, HourTo: 23, Now: now})[0].DataPoints)
	assert.Equal(t, 2, CalculateHeatmapScores(stands, sessions, Params{Month: 5, HourFrom: 3, HourTo: 4, Now: now})[0].DataPoints)
}

func TestSessionTimesUseGroundTimezone(t *testing.T) {
	t.Parallel()
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	stands := []Stand{{ID: "s"}}
	sessions := []Session{closedSession("x", "s", time.Date(2024, time.February, 29, 23, 30, 0, 0, time.UTC), true)}
	p := Params{Month: 4, HourFrom: 0, HourTo: 0, Now: at(2024, time.June, 1, 0), Location: berlin}
	assert.Equal(t, 1, CalculateHeatmapScores(stands, sessions, p)[0].DataPoints)
	p.Location = nil
	assert.Equal(t, 0, CalculateHeatmapScores(stands, sessions, p)[0].DataPoints)
}

func TestSpeciesFilterMatchesSightingsAndHarvest(t *testing.T) {
	t.Parallel()
	stands := []Stand{{ID: "s"}}
	seen := closedSession("seen", "s", at(2024, time.May, 1, 6), false)
	seen.Sightings = []Sighting{{Species: "Rehwild", Count: 2}}
	shot := closedSession("shot", "s", at(2024, time.May, 2, 6), true)
	shot.HarvestSpecies = "Schwarzwild"
	empty := closedSession("empty", "s", at(2024, time.May, 3, 6), false)
	sessions := []Session{seen, shot, empty}
	p := Params{Month: 5, HourFrom: 5, HourTo: 7, Now: at(2024, time.June, 1, 0)}

	p.Species = "Rehwild"
	assert.Equal(t, 1, CalculateHeatmapScores(stands, sessions, p)[0].DataPoints)
	p.Species = "Schwarzwild"
	assert.Equal(t, 1, CalculateHeatmapScores(stands, sessions, p)[0].DataPoints)
	p.Species = SpeciesAll
	assert.Equal(t, 3, CalculateHeatmapScores(stands, sessions, p)[0].DataPoints)
}

func TestPressureFactorBoundaries(t *testing.T) {
	t.Parallel()
	now := at(2024, time.May, 20, 12)
	cases := []struct {
		name     string
		sessions []Session
		want     float64
	}{
		{"never hunted", nil, 1.2},
		{"only future sessions", []Session{{StandID: "s", Start: now.Add(time.Hour)}}, 1.2},
		{"seven days", []Session{{StandID: "s", Start: now.Add(-7 * 24 * time.Hour)}}, 1.2},
		{"three days", []Session{{StandID: "s", Start: now.Add(-3 * 24 * time.Hour)}}, 1.0},
		{"just under three days", []Session{{StandID: "s", Start: now.Add(-71 * time.Hour)}}, 0.7},
		{"latest wins", []Session{
			{StandID: "s", Start: now.Add(-30 * 24 * time.Hour)},
			{StandID: "s", Start: now.Add(-24 * time.Hour)},
		}, 0.7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pressureFactor(tc.sessions, now), tc.name)
	}
}

func TestPressureIgnoresFilters(t *testing.T) {
	t.Parallel()
	now := at(2024, time.May, 20, 12)
	stands := []Stand{{ID: "s"}}
	sessions := []Session{closedSession("x", "s", now.Add(-24*time.Hour), false)}
	scores := CalculateHeatmapScores(stands, sessions, Params{Month: 11, HourFrom: 2, HourTo: 3, Species: "Fuchs", Now: now})
	assert.Equal(t, 0, scores[0].DataPoints)
	assert.Equal(t, 0.7, scores[0].Factors.Pressure)
	assert.Equal(t, 35, scores[0].Score)
}

func TestEmptyInputsAreTotal(t *testing.T) {
	t.Parallel()
	assert.Empty(t, CalculateHeatmapScores(nil, nil, Params{}))
	assert.Empty(t, FindBestTimes(nil, nil, Params{}))
	scores := CalculateHeatmapScores([]Stand{{ID: "s"}}, nil, Params{Month: 1, Now: at(2024, time.January, 1, 0)})
	require.Len(t, scores, 1)
	assert.Equal(t, 60, scores[0].Score)
}
