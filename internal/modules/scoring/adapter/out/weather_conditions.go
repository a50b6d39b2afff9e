package out

import (
	"context"
	"time"

	"ansitzplaner/internal/modules/scoring/domain"
	scoringout "ansitzplaner/internal/modules/scoring/port/out"
	weatherdto "ansitzplaner/internal/modules/weather/dto"
	weatherin "ansitzplaner/internal/modules/weather/port/in"
)

type WeatherConditions struct {
	weather weatherin.Usecase
}

func NewWeatherConditions(weather weatherin.Usecase) scoringout.Conditions {
	return &WeatherConditions{weather: weather}
}

func (w *WeatherConditions) Current(ctx context.Context, lat, lng float64) (domain.Weather, error) {
	c, err := w.weather.Current(ctx, weatherdto.CoordinateInput{Lat: lat, Lng: lng})
	if err != nil {
		return domain.Weather{}, err
	}
	precip, temp, cloud := c.PrecipMM, c.TemperatureC, c.CloudCoverPct
	out := domain.Weather{WindDirection: c.WindDirection, PrecipMM: &precip, CloudCoverPct: &cloud}
	// Readings outside the physical range are treated as unknown.
	if temp >= -40 && temp <= 50 {
		out.TemperatureC = &temp
	}
	return out, nil
}

func (w *WeatherConditions) MoonPhase(ctx context.Context, lat, lng float64, at time.Time) (string, error) {
	a, err := w.weather.Astronomy(ctx, weatherdto.AstronomyInput{Lat: lat, Lng: lng, At: at})
	if err != nil {
		return "", err
	}
	return a.MoonPhase, nil
}
