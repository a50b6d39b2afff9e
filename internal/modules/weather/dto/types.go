package dto

import "time"

type CoordinateInput struct {
	Lat float64
	Lng float64
}

type ConditionsOutput struct {
	TemperatureC     float64   `json:"temperatur_celsius"`
	WindDirection    string    `json:"windrichtung"`
	WindBeaufort     int       `json:"windstaerke_bft"`
	PrecipMM         float64   `json:"niederschlag_mm"`
	Precipitation    string    `json:"niederschlag"`
	CloudCoverPct    float64   `json:"bewoelkung_prozent"`
	PressureHPa      float64   `json:"luftdruck_hpa"`
	MoonPhase        string    `json:"mondphase"`
	MoonIllumination int       `json:"mond_beleuchtung"`
	Sunrise          time.Time `json:"sonnenaufgang"`
	Sunset           time.Time `json:"sonnenuntergang"`
	FetchedAt        time.Time `json:"fetched_at"`
}

type DayOutput struct {
	Date          time.Time `json:"datum"`
	TempMinC      float64   `json:"temp_min"`
	TempMaxC      float64   `json:"temp_max"`
	PrecipMM      float64   `json:"niederschlag_mm"`
	WindMaxKMH    float64   `json:"wind_kmh"`
	WindBeaufort  int       `json:"windstaerke_bft"`
	WindDirection string    `json:"windrichtung"`
	CloudCoverPct float64   `json:"bewoelkung"`
	Favorability  int       `json:"jagd_score"`
	Best          bool      `json:"best"`
}

type ForecastOutput struct {
	Days []DayOutput `json:"days"`
}

type AstronomyInput struct {
	Lat float64
	Lng float64
	At  time.Time
}

type AstronomyOutput struct {
	MoonPhase     string    `json:"mondphase"`
	PhasePosition float64   `json:"phase"`
	Illumination  int       `json:"beleuchtung"`
	Sunrise       time.Time `json:"sonnenaufgang"`
	Sunset        time.Time `json:"sonnenuntergang"`
	Dawn          time.Time `json:"daemmerung_beginn"`
	Dusk          time.Time `json:"daemmerung_ende"`
	HuntingHour   bool      `json:"jagdzeit"`
}

// OverviewOutput bundles current conditions and forecast. A failed half is
// reported through its error string so the other half still renders.
type OverviewOutput struct {
	Current     ConditionsOutput `json:"current"`
	CurrentErr  string           `json:"current_error,omitempty"`
	Forecast    []DayOutput      `json:"forecast"`
	ForecastErr string           `json:"forecast_error,omitempty"`
}
