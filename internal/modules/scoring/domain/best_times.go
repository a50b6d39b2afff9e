package domain

const (
	defaultBestFrom = 17
	defaultBestTo   = 19
	windowCount     = 12
)

// FindBestTimes searches the twelve two-hour windows of the day per stand.
// Only a strictly higher score replaces the current best, so ties keep the
// earliest window and an all-zero day falls back to 17–19.
func FindBestTimes(stands []Stand, sessions []Session, p Params) []BestTime {
	out := make([]BestTime, 0, len(stands))
	for _, stand := range stands {
		best := BestTime{StandID: stand.ID, Score: 0, HourFrom: defaultBestFrom, HourTo: defaultBestTo}
		for i := 0; i < windowCount; i++ {
			windowed := p
			windowed.HourFrom = i * 2
			windowed.HourTo = i*2 + 1
			scores := CalculateHeatmapScores([]Stand{stand}, sessions, windowed)
			if len(scores) > 0 && scores[0].Score > best.Score {
				best.Score = scores[0].Score
				best.HourFrom = windowed.HourFrom
				best.HourTo = windowed.HourTo
			}
		}
		out = append(out, best)
	}
	return out
}
