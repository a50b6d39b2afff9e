package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBestTimesDefaultsWhenEverythingScoresZero(t *testing.T) {
	t.Parallel()
	var sessions []Session
	for h := 0; h < 24; h += 2 {
		for i := 0; i < 5; i++ {
			sessions = append(sessions, closedSession("f", "s", at(2024, time.May, i+1, h), false))
		}
	}
	best := FindBestTimes([]Stand{{ID: "s"}}, sessions, Params{Month: 5, Now: at(2024, time.June, 1, 0)})
	require.Len(t, best, 1)
	assert.Equal(t, BestTime{StandID: "s", Score: 0, HourFrom: 17, HourTo: 19}, best[0])
}

func TestFindBestTimesPicksEarliestStrictMaximum(t *testing.T) {
	t.Parallel()
	var sessions []Session
	for i := 0; i < 5; i++ {
		sessions = append(sessions, closedSession("ok", "s", at(2024, time.May, 10+i, 4), true))
	}
	now := at(2024, time.May, 15, 12)
	p := Params{Month: 5, Now: now}
	best := FindBestTimes([]Stand{{ID: "s"}}, sessions, p)
	require.Len(t, best, 1)
	assert.Equal(t, 2, best[0].HourFrom)
	assert.Equal(t, 3, best[0].HourTo)
	assert.Equal(t, 70, best[0].Score)

	for i := 0; i < 12; i++ {
		w := p
		w.HourFrom, w.HourTo = i*2, i*2+1
		s := CalculateHeatmapScores([]Stand{{ID: "s"}}, sessions, w)[0].Score
		assert.GreaterOrEqual(t, best[0].Score, s, "window %d", i)
	}
}

func TestScoreToColor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ColorLowConfidence, ScoreToColor(99, 4))
	assert.Equal(t, ColorHigh, ScoreToColor(75, 5))
	assert.Equal(t, ColorMedium, ScoreToColor(74, 5))
	assert.Equal(t, ColorMedium, ScoreToColor(50, 9))
	assert.Equal(t, ColorLow, ScoreToColor(25, 9))
	assert.Equal(t, ColorPoor, ScoreToColor(24, 9))
	assert.Equal(t, "#9ca3af", ColorLowConfidence.Hex())
}
