package in

import (
	"context"
	"time"

	"ansitzplaner/internal/modules/weather/dto"
	weatherin "ansitzplaner/internal/modules/weather/port/in"
)

type CLIHandler struct {
	usecase weatherin.Usecase
}

func NewCLIHandler(usecase weatherin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Current(ctx context.Context, lat, lng float64) (dto.ConditionsOutput, error) {
	return h.usecase.Current(ctx, dto.CoordinateInput{Lat: lat, Lng: lng})
}

func (h CLIHandler) Week(ctx context.Context, lat, lng float64) (dto.ForecastOutput, error) {
	return h.usecase.Week(ctx, dto.CoordinateInput{Lat: lat, Lng: lng})
}

func (h CLIHandler) Astronomy(ctx context.Context, lat, lng float64, at time.Time) (dto.AstronomyOutput, error) {
	return h.usecase.Astronomy(ctx, dto.AstronomyInput{Lat: lat, Lng: lng, At: at})
}

func (h CLIHandler) Overview(ctx context.Context, lat, lng float64) (dto.OverviewOutput, error) {
	return h.usecase.Overview(ctx, dto.CoordinateInput{Lat: lat, Lng: lng})
}
