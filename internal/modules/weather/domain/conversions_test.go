package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindSpeedToBeaufort(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kmh  float64
		want int
	}{
		{0, 0},
		{0.9, 0},
		{1, 1},
		{25, 4},
		{29, 5},
		{117.9, 11},
		{118, 12},
		{200, 12},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WindSpeedToBeaufort(tc.kmh), "speed %v", tc.kmh)
	}
}

func TestWindDegToCardinal(t *testing.T) {
	t.Parallel()
	cases := map[float64]WindDirection{
		0:     WindN,
		22.4:  WindN,
		22.5:  WindNO,
		90:    WindO,
		180:   WindS,
		225:   WindSW,
		300:   WindNW,
		337.5: WindN,
		359:   WindN,
		-45:   WindNW,
	}
	for deg, want := range cases {
		assert.Equal(t, want, WindDegToCardinal(deg), "deg %v", deg)
	}
}

func TestPrecipitationFromMM(t *testing.T) {
	t.Parallel()
	assert.Equal(t, PrecipitationNone, PrecipitationFromMM(0))
	assert.Equal(t, PrecipitationLight, PrecipitationFromMM(0.1))
	assert.Equal(t, PrecipitationLight, PrecipitationFromMM(2))
	assert.Equal(t, PrecipitationModerate, PrecipitationFromMM(10))
	assert.Equal(t, PrecipitationHeavy, PrecipitationFromMM(10.1))
}

func TestParseWindDirection(t *testing.T) {
	t.Parallel()
	d, ok := ParseWindDirection("SW")
	assert.True(t, ok)
	assert.Equal(t, WindSW, d)
	_, ok = ParseWindDirection("E")
	assert.False(t, ok)
}
