package out

import (
	"context"
	"time"

	"ansitzplaner/internal/modules/scoring/domain"
)

// History reads the active ground with its stands and sessions. Sessions
// and stands report where they were read from.
type History interface {
	Ground(ctx context.Context) (domain.Ground, error)
	Stands(ctx context.Context) ([]domain.Stand, string, error)
	Sessions(ctx context.Context) ([]domain.Session, string, error)
}

type Conditions interface {
	Current(ctx context.Context, lat, lng float64) (domain.Weather, error)
	MoonPhase(ctx context.Context, lat, lng float64, at time.Time) (string, error)
}
