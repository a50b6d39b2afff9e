package in

import (
	"context"

	"ansitzplaner/internal/modules/scoring/dto"
)

type Usecase interface {
	Heatmap(ctx context.Context, input dto.HeatmapInput) (dto.HeatmapOutput, error)
	BestTimes(ctx context.Context, input dto.HeatmapInput) (dto.BestTimesOutput, error)
	Statistics(ctx context.Context, input dto.StatisticsInput) (dto.StatisticsOutput, error)
}
