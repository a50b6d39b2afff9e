package in

import (
	"context"
	"time"

	"ansitzplaner/internal/modules/scoring/dto"
	scoringin "ansitzplaner/internal/modules/scoring/port/in"
)

type CLIHandler struct {
	usecase scoringin.Usecase
}

func NewCLIHandler(usecase scoringin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Heatmap(ctx context.Context, input dto.HeatmapInput) (dto.HeatmapOutput, error) {
	return h.usecase.Heatmap(ctx, input)
}

func (h CLIHandler) BestTimes(ctx context.Context, input dto.HeatmapInput) (dto.BestTimesOutput, error) {
	return h.usecase.BestTimes(ctx, input)
}

func (h CLIHandler) Statistics(ctx context.Context, since time.Time) (dto.StatisticsOutput, error) {
	return h.usecase.Statistics(ctx, dto.StatisticsInput{Since: since})
}
