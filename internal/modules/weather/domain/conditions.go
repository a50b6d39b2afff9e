package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrNoData = errors.New("no weather data for requested time")

type WindDirection string

const (
	WindN  WindDirection = "N"
	WindNO WindDirection = "NO"
	WindO  WindDirection = "O"
	WindSO WindDirection = "SO"
	WindS  WindDirection = "S"
	WindSW WindDirection = "SW"
	WindW  WindDirection = "W"
	WindNW WindDirection = "NW"
)

var cardinals = [8]WindDirection{WindN, WindNO, WindO, WindSO, WindS, WindSW, WindW, WindNW}

// ParseWindDirection accepts the eight German compass labels.
func ParseWindDirection(raw string) (WindDirection, bool) {
	for _, d := range cardinals {
		if string(d) == raw {
			return d, true
		}
	}
	return "", false
}

type Precipitation string

const (
	PrecipitationNone     Precipitation = "kein"
	PrecipitationLight    Precipitation = "leicht"
	PrecipitationModerate Precipitation = "mittel"
	PrecipitationHeavy    Precipitation = "stark"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("coordinate out of range: %v,%v", c.Lat, c.Lng)
	}
	return nil
}

// Bucket rounds to two decimals (about 1 km), the cache granularity.
func (c Coordinate) Bucket() string {
	return fmt.Sprintf("%.2f_%.2f", c.Lat, c.Lng)
}

// HourlyReading is one row of the upstream hourly series.
type HourlyReading struct {
	Time          time.Time
	TemperatureC  float64
	WindSpeedKMH  float64
	WindDegrees   float64
	PrecipMM      float64
	CloudCoverPct float64
	PressureHPa   float64
}

// DailyReading is one row of the upstream daily series.
type DailyReading struct {
	Date          time.Time
	TempMinC      float64
	TempMaxC      float64
	PrecipSumMM   float64
	WindMaxKMH    float64
	WindDegrees   float64
	CloudCoverPct float64
}

// Conditions is the snapshot used for scoring and stored with a session.
type Conditions struct {
	TemperatureC     float64       `json:"temperatur_celsius"`
	WindDirection    WindDirection `json:"windrichtung"`
	WindBeaufort     int           `json:"windstaerke_bft"`
	PrecipMM         float64       `json:"niederschlag_mm"`
	Precipitation    Precipitation `json:"niederschlag"`
	CloudCoverPct    float64       `json:"bewoelkung_prozent"`
	PressureHPa      float64       `json:"luftdruck_hpa"`
	MoonPhase        MoonPhase     `json:"mondphase"`
	MoonIllumination int           `json:"mond_beleuchtung"`
	Sunrise          time.Time     `json:"sonnenaufgang"`
	Sunset           time.Time     `json:"sonnenuntergang"`
	FetchedAt        time.Time     `json:"fetched_at"`
}

// ConditionsAt converts a raw reading and attaches astronomy for c at t.
func ConditionsAt(r HourlyReading, c Coordinate, t time.Time) Conditions {
	sun := SunTimesAt(c, t)
	moon := MoonIlluminationAt(t)
	return Conditions{
		TemperatureC:     r.TemperatureC,
		WindDirection:    WindDegToCardinal(r.WindDegrees),
		WindBeaufort:     WindSpeedToBeaufort(r.WindSpeedKMH),
		PrecipMM:         r.PrecipMM,
		Precipitation:    PrecipitationFromMM(r.PrecipMM),
		CloudCoverPct:    r.CloudCoverPct,
		PressureHPa:      r.PressureHPa,
		MoonPhase:        ClassifyMoonPhase(moon.Phase),
		MoonIllumination: moon.Percent(),
		Sunrise:          sun.Sunrise,
		Sunset:           sun.Sunset,
		FetchedAt:        t,
	}
}
