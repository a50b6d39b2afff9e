package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ansitzplaner/internal/modules/weather/domain"
	"ansitzplaner/internal/modules/weather/dto"
	weatherin "ansitzplaner/internal/modules/weather/port/in"
	apperrors "ansitzplaner/internal/platform/errors"
)

const bestDayCount = 2

type provider interface {
	Current(ctx context.Context, c domain.Coordinate) (domain.Conditions, error)
	Weekly(ctx context.Context, c domain.Coordinate) ([]domain.DailyForecast, error)
	Astronomy(c domain.Coordinate, t time.Time) (domain.MoonIllumination, domain.SunTimes, bool)
}

type Interactor struct {
	svc provider
	now func() time.Time
}

func NewInteractor(svc provider, now func() time.Time) weatherin.Usecase {
	return &Interactor{svc: svc, now: now}
}

func (i *Interactor) Current(ctx context.Context, input dto.CoordinateInput) (dto.ConditionsOutput, error) {
	c, err := coordinate(input)
	if err != nil {
		return dto.ConditionsOutput{}, err
	}
	conditions, err := i.svc.Current(ctx, c)
	if err != nil {
		return dto.ConditionsOutput{}, err
	}
	return toConditionsOutput(conditions), nil
}

func (i *Interactor) Week(ctx context.Context, input dto.CoordinateInput) (dto.ForecastOutput, error) {
	c, err := coordinate(input)
	if err != nil {
		return dto.ForecastOutput{}, err
	}
	days, err := i.svc.Weekly(ctx, c)
	if err != nil {
		return dto.ForecastOutput{}, err
	}
	return dto.ForecastOutput{Days: toDayOutputs(days)}, nil
}

func (i *Interactor) Astronomy(_ context.Context, input dto.AstronomyInput) (dto.AstronomyOutput, error) {
	c, err := coordinate(dto.CoordinateInput{Lat: input.Lat, Lng: input.Lng})
	if err != nil {
		return dto.AstronomyOutput{}, err
	}
	at := input.At
	if at.IsZero() {
		at = i.now()
	}
	moon, sun, hunting := i.svc.Astronomy(c, at)
	return dto.AstronomyOutput{
		MoonPhase:     string(domain.ClassifyMoonPhase(moon.Phase)),
		PhasePosition: moon.Phase,
		Illumination:  moon.Percent(),
		Sunrise:       sun.Sunrise,
		Sunset:        sun.Sunset,
		Dawn:          sun.Dawn,
		Dusk:          sun.Dusk,
		HuntingHour:   hunting,
	}, nil
}

// Overview fetches current conditions and the forecast concurrently.
func (i *Interactor) Overview(ctx context.Context, input dto.CoordinateInput) (dto.OverviewOutput, error) {
	c, err := coordinate(input)
	if err != nil {
		return dto.OverviewOutput{}, err
	}
	out := dto.OverviewOutput{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		conditions, err := i.svc.Current(gctx, c)
		if err != nil {
			out.CurrentErr = err.Error()
			return nil
		}
		out.Current = toConditionsOutput(conditions)
		return nil
	})
	g.Go(func() error {
		days, err := i.svc.Weekly(gctx, c)
		if err != nil {
			out.ForecastErr = err.Error()
			return nil
		}
		out.Forecast = toDayOutputs(days)
		return nil
	})
	if err := g.Wait(); err != nil {
		return dto.OverviewOutput{}, err
	}
	return out, nil
}

func coordinate(input dto.CoordinateInput) (domain.Coordinate, error) {
	c := domain.Coordinate{Lat: input.Lat, Lng: input.Lng}
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return c, nil
}

func toConditionsOutput(c domain.Conditions) dto.ConditionsOutput {
	return dto.ConditionsOutput{
		TemperatureC:     c.TemperatureC,
		WindDirection:    string(c.WindDirection),
		WindBeaufort:     c.WindBeaufort,
		PrecipMM:         c.PrecipMM,
		Precipitation:    string(c.Precipitation),
		CloudCoverPct:    c.CloudCoverPct,
		PressureHPa:      c.PressureHPa,
		MoonPhase:        string(c.MoonPhase),
		MoonIllumination: c.MoonIllumination,
		Sunrise:          c.Sunrise,
		Sunset:           c.Sunset,
		FetchedAt:        c.FetchedAt,
	}
}

func toDayOutputs(days []domain.DailyForecast) []dto.DayOutput {
	best := map[time.Time]bool{}
	for _, d := range domain.BestDays(days, bestDayCount) {
		best[d] = true
	}
	out := make([]dto.DayOutput, 0, len(days))
	for _, d := range days {
		out = append(out, dto.DayOutput{
			Date:          d.Date,
			TempMinC:      d.TempMinC,
			TempMaxC:      d.TempMaxC,
			PrecipMM:      d.PrecipMM,
			WindMaxKMH:    d.WindMaxKMH,
			WindBeaufort:  domain.WindSpeedToBeaufort(d.WindMaxKMH),
			WindDirection: string(d.WindDirection),
			CloudCoverPct: d.CloudCoverPct,
			Favorability:  d.Favorability,
			Best:          best[d.Date],
		})
	}
	return out
}
