package dto

import "time"

// HeatmapInput defaults the month to the current one, the hours to 5–21
// and the species to all.
type HeatmapInput struct {
	Month    int
	HourFrom *int
	HourTo   *int
	Species  string
	At       time.Time
}

type FactorsOutput struct {
	Basis    int     `json:"basis"`
	Weather  float64 `json:"wetter"`
	Lunar    float64 `json:"mond"`
	Pressure float64 `json:"jagddruck"`
}

type StandScoreOutput struct {
	StandID    string        `json:"einrichtung_id"`
	Name       string        `json:"name"`
	Lat        float64       `json:"lat"`
	Lng        float64       `json:"lng"`
	Score      int           `json:"score"`
	DataPoints int           `json:"datenpunkte"`
	Color      string        `json:"farbe"`
	Hex        string        `json:"hex"`
	Factors    FactorsOutput `json:"faktoren"`
}

type HeatmapOutput struct {
	GroundID     string             `json:"revier_id"`
	Month        int                `json:"monat"`
	HourFrom     int                `json:"stunde_von"`
	HourTo       int                `json:"stunde_bis"`
	Species      string             `json:"wildart"`
	MoonPhase    string             `json:"mondphase,omitempty"`
	WeatherKnown bool               `json:"wetter_bekannt"`
	Source       string             `json:"source"`
	Stands       []StandScoreOutput `json:"stands"`
}

type BestTimeOutput struct {
	StandID  string `json:"einrichtung_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	HourFrom int    `json:"stunde_von"`
	HourTo   int    `json:"stunde_bis"`
	Label    string `json:"label"`
}

type BestTimesOutput struct {
	GroundID string           `json:"revier_id"`
	Month    int              `json:"monat"`
	Species  string           `json:"wildart"`
	Source   string           `json:"source"`
	Stands   []BestTimeOutput `json:"stands"`
}

// StatisticsInput counts every session when Since is zero.
type StatisticsInput struct {
	Since time.Time
}

type StandRankOutput struct {
	StandID   string `json:"einrichtung_id"`
	Name      string `json:"name"`
	Total     int    `json:"gesamt"`
	Successes int    `json:"erfolge"`
	Rate      int    `json:"quote"`
}

type MoonPhaseOutput struct {
	Phase     string `json:"mondphase"`
	Total     int    `json:"gesamt"`
	Successes int    `json:"erfolge"`
	Rate      int    `json:"quote"`
}

type StatisticsOutput struct {
	GroundID    string            `json:"revier_id"`
	Since       time.Time         `json:"seit"`
	Sessions    int               `json:"ansitze"`
	Successes   int               `json:"erfolge"`
	SuccessRate int               `json:"erfolgsquote"`
	Harvests    int               `json:"abschuesse"`
	Sightings   int               `json:"beobachtungen"`
	Species     map[string]int    `json:"wildarten"`
	Ranking     []StandRankOutput `json:"einrichtungen"`
	MoonPhases  []MoonPhaseOutput `json:"mondphasen"`
	Hours       []int             `json:"stunden"`
	PeakHour    int               `json:"hauptzeit"`
	Source      string            `json:"source"`
	Report      string            `json:"report"`
}
