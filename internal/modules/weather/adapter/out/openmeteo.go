package out

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ansitzplaner/internal/modules/weather/domain"
	weatherout "ansitzplaner/internal/modules/weather/port/out"
)

const (
	hourlyParams = "temperature_2m,wind_speed_10m,wind_direction_10m,precipitation,cloud_cover,pressure_msl"
	dailyParams  = "temperature_2m_min,temperature_2m_max,precipitation_sum,wind_speed_10m_max,wind_direction_10m_dominant,cloud_cover_mean"
)

// OpenMeteoClient reads the free Open-Meteo forecast API.
type OpenMeteoClient struct {
	baseURL string
	loc     *time.Location
	http    *http.Client
}

func NewOpenMeteoClient(baseURL string, loc *time.Location, httpClient *http.Client) weatherout.Source {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OpenMeteoClient{baseURL: baseURL, loc: loc, http: httpClient}
}

type hourlyResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		WindDirection []float64 `json:"wind_direction_10m"`
		Precipitation []float64 `json:"precipitation"`
		CloudCover    []float64 `json:"cloud_cover"`
		Pressure      []float64 `json:"pressure_msl"`
	} `json:"hourly"`
}

type dailyResponse struct {
	Daily struct {
		Time          []string  `json:"time"`
		TempMin       []float64 `json:"temperature_2m_min"`
		TempMax       []float64 `json:"temperature_2m_max"`
		Precipitation []float64 `json:"precipitation_sum"`
		WindMax       []float64 `json:"wind_speed_10m_max"`
		WindDirection []float64 `json:"wind_direction_10m_dominant"`
		CloudCover    []float64 `json:"cloud_cover_mean"`
	} `json:"daily"`
}

func (c *OpenMeteoClient) Hourly(ctx context.Context, coord domain.Coordinate) ([]domain.HourlyReading, error) {
	var body hourlyResponse
	if err := c.get(ctx, coord, "hourly", hourlyParams, 1, &body); err != nil {
		return nil, err
	}
	h := body.Hourly
	out := make([]domain.HourlyReading, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", raw, c.loc)
		if err != nil {
			return nil, fmt.Errorf("parse hourly time %q: %w", raw, err)
		}
		out = append(out, domain.HourlyReading{
			Time:          ts,
			TemperatureC:  at(h.Temperature, i),
			WindSpeedKMH:  at(h.WindSpeed, i),
			WindDegrees:   at(h.WindDirection, i),
			PrecipMM:      at(h.Precipitation, i),
			CloudCoverPct: at(h.CloudCover, i),
			PressureHPa:   at(h.Pressure, i),
		})
	}
	return out, nil
}

func (c *OpenMeteoClient) Daily(ctx context.Context, coord domain.Coordinate, days int) ([]domain.DailyReading, error) {
	var body dailyResponse
	if err := c.get(ctx, coord, "daily", dailyParams, days, &body); err != nil {
		return nil, err
	}
	d := body.Daily
	out := make([]domain.DailyReading, 0, len(d.Time))
	for i, raw := range d.Time {
		date, err := time.ParseInLocation("2006-01-02", raw, c.loc)
		if err != nil {
			return nil, fmt.Errorf("parse daily date %q: %w", raw, err)
		}
		out = append(out, domain.DailyReading{
			Date:          date,
			TempMinC:      at(d.TempMin, i),
			TempMaxC:      at(d.TempMax, i),
			PrecipSumMM:   at(d.Precipitation, i),
			WindMaxKMH:    at(d.WindMax, i),
			WindDegrees:   at(d.WindDirection, i),
			CloudCoverPct: at(d.CloudCover, i),
		})
	}
	return out, nil
}

func (c *OpenMeteoClient) get(ctx context.Context, coord domain.Coordinate, series, params string, days int, into any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse weather url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Lng, 'f', 4, 64))
	q.Set(series, params)
	q.Set("timezone", c.loc.String())
	q.Set("forecast_days", strconv.Itoa(days))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("open-meteo: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

// at tolerates short columns; missing values read as zero.
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
