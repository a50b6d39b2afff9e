package usecase

import (
	"context"
	"fmt"

	"ansitzplaner/internal/modules/scoring/domain"
	"ansitzplaner/internal/modules/scoring/dto"
	scoringin "ansitzplaner/internal/modules/scoring/port/in"
	"ansitzplaner/internal/modules/scoring/service"
)

type Interactor struct {
	svc *service.Planner
}

func NewInteractor(svc *service.Planner) scoringin.Usecase {
	return &Interactor{svc: svc}
}

func query(input dto.HeatmapInput) service.Query {
	q := service.Query{
		Month:    input.Month,
		HourFrom: domain.DefaultHourFrom,
		HourTo:   domain.DefaultHourTo,
		Species:  input.Species,
		At:       input.At,
	}
	if input.HourFrom != nil {
		q.HourFrom = *input.HourFrom
	}
	if input.HourTo != nil {
		q.HourTo = *input.HourTo
	}
	return q
}

func (i *Interactor) Heatmap(ctx context.Context, input dto.HeatmapInput) (dto.HeatmapOutput, error) {
	board, scores, err := i.svc.Heatmap(ctx, query(input))
	if err != nil {
		return dto.HeatmapOutput{}, err
	}
	byID := standsByID(board.Stands)
	out := dto.HeatmapOutput{
		GroundID:     board.Ground.ID,
		Month:        board.Params.Month,
		HourFrom:     board.Params.HourFrom,
		HourTo:       board.Params.HourTo,
		Species:      board.Params.Species,
		MoonPhase:    board.Params.MoonPhase,
		WeatherKnown: board.WeatherKnown,
		Source:       board.Source,
		Stands:       make([]dto.StandScoreOutput, 0, len(scores)),
	}
	for _, s := range scores {
		stand := byID[s.StandID]
		color := domain.ScoreToColor(s.Score, s.DataPoints)
		out.Stands = append(out.Stands, dto.StandScoreOutput{
			StandID:    s.StandID,
			Name:       stand.Name,
			Lat:        stand.Lat,
			Lng:        stand.Lng,
			Score:      s.Score,
			DataPoints: s.DataPoints,
			Color:      string(color),
			Hex:        color.Hex(),
			Factors: dto.FactorsOutput{
				Basis:    s.Factors.Basis,
				Weather:  s.Factors.Weather,
				Lunar:    s.Factors.Lunar,
				Pressure: s.Factors.Pressure,
			},
		})
	}
	return out, nil
}

func (i *Interactor) BestTimes(ctx context.Context, input dto.HeatmapInput) (dto.BestTimesOutput, error) {
	board, times, err := i.svc.BestTimes(ctx, query(input))
	if err != nil {
		return dto.BestTimesOutput{}, err
	}
	byID := standsByID(board.Stands)
	out := dto.BestTimesOutput{
		GroundID: board.Ground.ID,
		Month:    board.Params.Month,
		Species:  board.Params.Species,
		Source:   board.Source,
		Stands:   make([]dto.BestTimeOutput, 0, len(times)),
	}
	for _, bt := range times {
		out.Stands = append(out.Stands, dto.BestTimeOutput{
			StandID:  bt.StandID,
			Name:     byID[bt.StandID].Name,
			Score:    bt.Score,
			HourFrom: bt.HourFrom,
			HourTo:   bt.HourTo,
			Label:    fmt.Sprintf("%02d:00-%02d:00", bt.HourFrom, bt.HourTo+1),
		})
	}
	return out, nil
}

func (i *Interactor) Statistics(ctx context.Context, input dto.StatisticsInput) (dto.StatisticsOutput, error) {
	ground, stats, source, err := i.svc.Statistics(ctx, input.Since)
	if err != nil {
		return dto.StatisticsOutput{}, err
	}
	title := ground.Name
	if title == "" {
		title = ground.ID
	}
	out := dto.StatisticsOutput{
		GroundID:    ground.ID,
		Since:       input.Since,
		Sessions:    stats.Summary.Sessions,
		Successes:   stats.Summary.Successes,
		SuccessRate: stats.Summary.SuccessRate,
		Harvests:    stats.Summary.Harvests,
		Sightings:   stats.Summary.Sightings,
		Species:     stats.Summary.SpeciesCount,
		Ranking:     make([]dto.StandRankOutput, 0, len(stats.Ranking)),
		MoonPhases:  make([]dto.MoonPhaseOutput, 0, len(stats.MoonPhases)),
		Hours:       stats.Hours[:],
		PeakHour:    stats.PeakHour,
		Source:      source,
		Report:      stats.Markdown(title),
	}
	for _, r := range stats.Ranking {
		out.Ranking = append(out.Ranking, dto.StandRankOutput{StandID: r.StandID, Name: r.StandName, Total: r.Total, Successes: r.Successes, Rate: r.Rate})
	}
	for _, m := range stats.MoonPhases {
		out.MoonPhases = append(out.MoonPhases, dto.MoonPhaseOutput{Phase: m.Phase, Total: m.Total, Successes: m.Successes, Rate: m.Rate})
	}
	return out, nil
}

func standsByID(stands []domain.Stand) map[string]domain.Stand {
	out := make(map[string]domain.Stand, len(stands))
	for _, s := range stands {
		out[s.ID] = s
	}
	return out
}
