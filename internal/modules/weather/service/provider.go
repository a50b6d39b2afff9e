package service

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"ansitzplaner/internal/modules/weather/domain"
	weatherout "ansitzplaner/internal/modules/weather/port/out"
	"ansitzplaner/internal/platform/clock"
	"ansitzplaner/internal/platform/logging"
)

const (
	ForecastDays   = 7
	cacheCapacity  = 256
	DefaultCurrent = 15 * time.Minute
	DefaultWeekly  = time.Hour
)

type cached[T any] struct {
	value     T
	fetchedAt time.Time
}

// Provider memoises upstream calls per coordinate bucket. Each provider owns
// its caches, so fresh instances never share state.
type Provider struct {
	source  weatherout.Source
	clock   clock.Clock
	loc     *time.Location
	log     hclog.Logger
	current *expirable.LRU[string, cached[domain.Conditions]]
	weekly  *expirable.LRU[string, cached[[]domain.DailyForecast]]
	curTTL  time.Duration
	weekTTL time.Duration
}

type Options struct {
	CurrentTTL  time.Duration
	ForecastTTL time.Duration
	Location    *time.Location
	Logger      hclog.Logger
}

func NewProvider(source weatherout.Source, clk clock.Clock, opts Options) *Provider {
	if opts.CurrentTTL <= 0 {
		opts.CurrentTTL = DefaultCurrent
	}
	if opts.ForecastTTL <= 0 {
		opts.ForecastTTL = DefaultWeekly
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Provider{
		source:  source,
		clock:   clk,
		loc:     opts.Location,
		log:     logging.OrNull(opts.Logger),
		current: expirable.NewLRU[string, cached[domain.Conditions]](cacheCapacity, nil, opts.CurrentTTL),
		weekly:  expirable.NewLRU[string, cached[[]domain.DailyForecast]](cacheCapacity, nil, opts.ForecastTTL),
		curTTL:  opts.CurrentTTL,
		weekTTL: opts.ForecastTTL,
	}
}

// Current returns conditions for the running hour at c.
func (p *Provider) Current(ctx context.Context, c domain.Coordinate) (domain.Conditions, error) {
	if err := c.Validate(); err != nil {
		return domain.Conditions{}, err
	}
	now := p.clock.Now()
	key := c.Bucket() + "_" + now.UTC().Format("2006-01-02T15")
	if hit, ok := p.current.Get(key); ok && now.Sub(hit.fetchedAt) < p.curTTL {
		p.log.Debug("current conditions cache hit", "key", key)
		return hit.value, nil
	}

	readings, err := p.source.Hourly(ctx, c)
	if err != nil {
		return domain.Conditions{}, fmt.Errorf("fetch hourly weather: %w", err)
	}
	if len(readings) == 0 {
		return domain.Conditions{}, domain.ErrNoData
	}
	reading := readings[0]
	hour := now.Truncate(time.Hour)
	for _, r := range readings {
		if r.Time.Truncate(time.Hour).Equal(hour) {
			reading = r
			break
		}
	}
	conditions := domain.ConditionsAt(reading, c, now)
	p.current.Add(key, cached[domain.Conditions]{value: conditions, fetchedAt: now})
	return conditions, nil
}

// Weekly returns the seven-day outlook with favourability per day.
func (p *Provider) Weekly(ctx context.Context, c domain.Coordinate) ([]domain.DailyForecast, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	now := p.clock.Now()
	key := c.Bucket() + "_" + now.In(p.loc).Format("2006-01-02")
	if hit, ok := p.weekly.Get(key); ok && now.Sub(hit.fetchedAt) < p.weekTTL {
		p.log.Debug("forecast cache hit", "key", key)
		return hit.value, nil
	}

	readings, err := p.source.Daily(ctx, c, ForecastDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily weather: %w", err)
	}
	if len(readings) == 0 {
		return nil, domain.ErrNoData
	}
	days := make([]domain.DailyForecast, 0, len(readings))
	for _, r := range readings {
		days = append(days, domain.ForecastFromReading(r))
	}
	p.weekly.Add(key, cached[[]domain.DailyForecast]{value: days, fetchedAt: now})
	return days, nil
}

// Astronomy describes moon and sun for c at t without any I/O.
func (p *Provider) Astronomy(c domain.Coordinate, t time.Time) (domain.MoonIllumination, domain.SunTimes, bool) {
	return domain.MoonIlluminationAt(t), domain.SunTimesAt(c, t), domain.IsHuntingHour(c, t)
}

func (p *Provider) Location() *time.Location {
	return p.loc
}
