package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"ansitzplaner/internal/modules/scoring/domain"
	scoringout "ansitzplaner/internal/modules/scoring/port/out"
	"ansitzplaner/internal/platform/clock"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/logging"
)

// Query selects the scoring window. Zero At means now.
type Query struct {
	Month    int
	HourFrom int
	HourTo   int
	Species  string
	At       time.Time
}

func (q Query) validate() error {
	if q.Month < 0 || q.Month > 12 {
		return fmt.Errorf("month %d out of range: %w", q.Month, apperrors.ErrInvalidInput)
	}
	if q.HourFrom < 0 || q.HourTo > 23 || q.HourFrom > q.HourTo {
		return fmt.Errorf("hours %d-%d out of range: %w", q.HourFrom, q.HourTo, apperrors.ErrInvalidInput)
	}
	return nil
}

// Board is one scoring run with the inputs it was computed from.
type Board struct {
	Ground       domain.Ground
	Stands       []domain.Stand
	Sessions     []domain.Session
	Params       domain.Params
	WeatherKnown bool
	Source       string
}

type Planner struct {
	history    scoringout.History
	conditions scoringout.Conditions
	clock      clock.Clock
	logger     hclog.Logger
}

func NewPlanner(history scoringout.History, conditions scoringout.Conditions, clk clock.Clock, logger hclog.Logger) *Planner {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Planner{history: history, conditions: conditions, clock: clk, logger: logging.OrNull(logger)}
}

func (p *Planner) Heatmap(ctx context.Context, q Query) (Board, []domain.Score, error) {
	board, err := p.board(ctx, q)
	if err != nil {
		return Board{}, nil, err
	}
	return board, domain.CalculateHeatmapScores(board.Stands, board.Sessions, board.Params), nil
}

func (p *Planner) BestTimes(ctx context.Context, q Query) (Board, []domain.BestTime, error) {
	board, err := p.board(ctx, q)
	if err != nil {
		return Board{}, nil, err
	}
	return board, domain.FindBestTimes(board.Stands, board.Sessions, board.Params), nil
}

func (p *Planner) Statistics(ctx context.Context, since time.Time) (domain.Ground, domain.Statistics, string, error) {
	ground, err := p.history.Ground(ctx)
	if err != nil {
		return domain.Ground{}, domain.Statistics{}, "", err
	}
	if !ground.CanViewStatistics {
		return domain.Ground{}, domain.Statistics{}, "", fmt.Errorf("view statistics of %s: %w", ground.ID, apperrors.ErrForbidden)
	}
	stands, _, err := p.history.Stands(ctx)
	if err != nil {
		return domain.Ground{}, domain.Statistics{}, "", err
	}
	sessions, source, err := p.history.Sessions(ctx)
	if err != nil {
		return domain.Ground{}, domain.Statistics{}, "", err
	}
	return ground, domain.BuildStatistics(stands, sessions, since, ground.Location), source, nil
}

func (p *Planner) board(ctx context.Context, q Query) (Board, error) {
	if err := q.validate(); err != nil {
		return Board{}, err
	}
	ground, err := p.history.Ground(ctx)
	if err != nil {
		return Board{}, err
	}
	if !ground.HeatmapEnabled {
		return Board{}, fmt.Errorf("heatmap for %s: %w", ground.ID, apperrors.ErrHeatmapDisabled)
	}
	stands, _, err := p.history.Stands(ctx)
	if err != nil {
		return Board{}, err
	}
	sessions, source, err := p.history.Sessions(ctx)
	if err != nil {
		return Board{}, err
	}

	at := q.At
	if at.IsZero() {
		at = p.clock.Now()
	}
	loc := ground.Location
	if loc == nil {
		loc = time.UTC
	}
	month := q.Month
	if month == 0 {
		month = int(at.In(loc).Month())
	}
	species := q.Species
	if species == "" {
		species = domain.SpeciesAll
	}
	params := domain.Params{
		Month:    month,
		HourFrom: q.HourFrom,
		HourTo:   q.HourTo,
		Species:  species,
		Now:      at,
		Location: loc,
	}

	lat, lng, located := domain.Center(stands)
	if phase, err := p.conditions.MoonPhase(ctx, lat, lng, at); err == nil {
		params.MoonPhase = phase
	} else {
		p.logger.Warn("moon phase unavailable", "error", err)
	}
	known := false
	if located {
		if w, err := p.conditions.Current(ctx, lat, lng); err == nil {
			params.Weather = w
			known = true
		} else {
			p.logger.Warn("weather unavailable, scoring without it", "ground", ground.ID, "error", err)
		}
	}
	p.logger.Debug("scoring board", "ground", ground.ID, "stands", len(stands), "sessions", len(sessions), "source", source)
	return Board{
		Ground:       ground,
		Stands:       stands,
		Sessions:     sessions,
		Params:       params,
		WeatherKnown: known,
		Source:       source,
	}, nil
}
