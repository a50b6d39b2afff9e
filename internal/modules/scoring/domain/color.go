package domain

type Color string

const (
	ColorLowConfidence Color = "gray"
	ColorHigh          Color = "green"
	ColorMedium        Color = "yellow"
	ColorLow           Color = "orange"
	ColorPoor          Color = "red"
)

// ScoreToColor lets confidence dominate: too few data points is always gray.
func ScoreToColor(score, dataPoints int) Color {
	switch {
	case dataPoints < MinDataPoints:
		return ColorLowConfidence
	case score >= 75:
		return ColorHigh
	case score >= 50:
		return ColorMedium
	case score >= 25:
		return ColorLow
	default:
		return ColorPoor
	}
}

func (c Color) Hex() string {
	switch c {
	case ColorHigh:
		return "#22c55e"
	case ColorMedium:
		return "#eab308"
	case ColorLow:
		return "#f97316"
	case ColorPoor:
		return "#ef4444"
	default:
		return "#9ca3af"
	}
}
