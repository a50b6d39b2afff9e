package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ansitzplaner/internal/modules/weather/domain"
	"ansitzplaner/internal/modules/weather/dto"
	"ansitzplaner/internal/modules/weather/usecase"
	apperrors "ansitzplaner/internal/platform/errors"
)

var noon = time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	currentErr error
	days       []domain.DailyForecast
	astroAt    time.Time
}

func (f *fakeProvider) Current(context.Context, domain.Coordinate) (domain.Conditions, error) {
	if f.currentErr != nil {
		return domain.Conditions{}, f.currentErr
	}
	return domain.Conditions{TemperatureC: 9, WindDirection: "SW", WindBeaufort: 3, Precipitation: domain.PrecipitationNone, MoonPhase: domain.MoonWaxing}, nil
}

func (f *fakeProvider) Weekly(context.Context, domain.Coordinate) ([]domain.DailyForecast, error) {
	return f.days, nil
}

func (f *fakeProvider) Astronomy(_ domain.Coordinate, t time.Time) (domain.MoonIllumination, domain.SunTimes, bool) {
	f.astroAt = t
	return domain.MoonIllumination{Fraction: 0.996, Phase: 0.5}, domain.SunTimes{Sunrise: t.Add(-5 * time.Hour)}, true
}

func day(d int, favorability int) domain.DailyForecast {
	return domain.DailyForecast{Date: noon.AddDate(0, 0, d), WindMaxKMH: 30, Favorability: favorability}
}

func TestCurrentRejectsOutOfRangeCoordinates(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(&fakeProvider{}, func() time.Time { return noon })
	if _, err := uc.Current(context.Background(), dto.CoordinateInput{Lat: 95, Lng: 10}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	out, err := uc.Current(context.Background(), dto.CoordinateInput{Lat: 51, Lng: 10})
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if out.WindDirection != "SW" || out.Precipitation != "kein" || out.MoonPhase != "zunehmend" {
		t.Fatalf("unexpected conditions %+v", out)
	}
}

func TestWeekMarksTwoBestDays(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{days: []domain.DailyForecast{day(0, 40), day(1, 80), day(2, 55), day(3, 80)}}
	out, err := usecase.NewInteractor(provider, func() time.Time { return noon }).Week(context.Background(), dto.CoordinateInput{Lat: 51, Lng: 10})
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	best := []bool{}
	for _, d := range out.Days {
		best = append(best, d.Best)
	}
	if len(best) != 4 || best[0] || !best[1] || best[2] || !best[3] {
		t.Fatalf("unexpected best days %v", best)
	}
	if out.Days[0].WindBeaufort != 5 {
		t.Fatalf("expected 30 km/h to be 5 Bft, got %d", out.Days[0].WindBeaufort)
	}
}

func TestAstronomyDefaultsToNow(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{}
	out, err := usecase.NewInteractor(provider, func() time.Time { return noon }).Astronomy(context.Background(), dto.AstronomyInput{Lat: 51, Lng: 10})
	if err != nil {
		t.Fatalf("astronomy: %v", err)
	}
	if !provider.astroAt.Equal(noon) {
		t.Fatalf("expected lookup at now, got %s", provider.astroAt)
	}
	if out.MoonPhase != "Vollmond" || out.Illumination != 100 || !out.HuntingHour {
		t.Fatalf("unexpected astronomy %+v", out)
	}
}

func TestOverviewKeepsForecastWhenCurrentFails(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{currentErr: apperrors.ErrRemoteUnavailable, days: []domain.DailyForecast{day(0, 60)}}
	out, err := usecase.NewInteractor(provider, func() time.Time { return noon }).Overview(context.Background(), dto.CoordinateInput{Lat: 51, Lng: 10})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if out.CurrentErr == "" || len(out.Forecast) != 1 || out.ForecastErr != "" {
		t.Fatalf("unexpected overview %+v", out)
	}
}
