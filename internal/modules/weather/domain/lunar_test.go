package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMoonPhaseBands(t *testing.T) {
	t.Parallel()
	cases := []struct {
		phase float64
		want  MoonPhase
	}{
		{0, MoonNew},
		{0.049, MoonNew},
		{0.05, MoonWaxing},
		{0.25, MoonWaxingHalf},
		{0.29, MoonWaxingHalf},
		{0.30, MoonFull},
		{0.5, MoonFull},
		{0.55, MoonWaning},
		{0.75, MoonWaningHalf},
		{0.94, MoonWaningHalf},
		{0.95, MoonNew},
		{0.96, MoonNew},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyMoonPhase(tc.phase), "phase %v", tc.phase)
	}
}

func TestMoonIlluminationKnownPhases(t *testing.T) {
	t.Parallel()
	full := time.Date(2024, time.January, 25, 17, 54, 0, 0, time.UTC)
	m := MoonIlluminationAt(full)
	require.InDelta(t, 0.5, m.Phase, 0.03)
	assert.GreaterOrEqual(t, m.Percent(), 97)
	assert.Equal(t, MoonFull, MoonPhaseAt(full))

	newMoon := time.Date(2024, time.January, 11, 11, 57, 0, 0, time.UTC)
	m = MoonIlluminationAt(newMoon)
	assert.LessOrEqual(t, m.Percent(), 3)
	assert.Equal(t, MoonNew, MoonPhaseAt(newMoon))
}

func TestSunTimesBerlinMidsummer(t *testing.T) {
	t.Parallel()
	berlin := Coordinate{Lat: 52.52, Lng: 13.405}
	sun := SunTimesAt(berlin, time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC))

	require.False(t, sun.Sunrise.IsZero())
	assert.True(t, sun.Dawn.Before(sun.Sunrise))
	assert.True(t, sun.Sunrise.Before(sun.Sunset))
	assert.True(t, sun.Sunset.Before(sun.Dusk))
	assert.Equal(t, 2, sun.Sunrise.UTC().Hour())
	assert.Equal(t, 19, sun.Sunset.UTC().Hour())

	assert.True(t, IsHuntingHour(berlin, time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC)))
	assert.False(t, IsHuntingHour(berlin, time.Date(2024, time.June, 21, 23, 30, 0, 0, time.UTC)))
}

func TestSunTimesPolarNight(t *testing.T) {
	t.Parallel()
	svalbard := Coordinate{Lat: 78.22, Lng: 15.65}
	sun := SunTimesAt(svalbard, time.Date(2024, time.December, 21, 12, 0, 0, 0, time.UTC))
	assert.True(t, sun.Sunrise.IsZero())
	assert.False(t, IsHuntingHour(svalbard, time.Date(2024, time.December, 21, 12, 0, 0, 0, time.UTC)))
}
