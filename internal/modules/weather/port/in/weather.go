package in

import (
	"context"

	"ansitzplaner/internal/modules/weather/dto"
)

type Usecase interface {
	Current(ctx context.Context, input dto.CoordinateInput) (dto.ConditionsOutput, error)
	Week(ctx context.Context, input dto.CoordinateInput) (dto.ForecastOutput, error)
	Astronomy(ctx context.Context, input dto.AstronomyInput) (dto.AstronomyOutput, error)
	Overview(ctx context.Context, input dto.CoordinateInput) (dto.OverviewOutput, error)
}
