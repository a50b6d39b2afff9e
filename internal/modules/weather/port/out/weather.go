package out

import (
	"context"

	"ansitzplaner/internal/modules/weather/domain"
)

// Source is the upstream time-series API. Non-2xx responses are hard
// failures; retries are left to callers.
type Source interface {
	Hourly(ctx context.Context, c domain.Coordinate) ([]domain.HourlyReading, error)
	Daily(ctx context.Context, c domain.Coordinate, days int) ([]domain.DailyReading, error)
}
