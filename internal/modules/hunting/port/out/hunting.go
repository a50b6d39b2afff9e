package out

import (
	"context"

	"ansitzplaner/internal/modules/hunting/domain"
)

// LocalStore is the durable fallback tier. Failures wrap
// apperrors.ErrLocalStorage.
type LocalStore interface {
	SaveSession(ctx context.Context, session domain.Session) error
	Sessions(ctx context.Context, groundID string) ([]domain.Session, error)
	Sightings(ctx context.Context, sessionID string) ([]domain.Sighting, error)
	SaveStands(ctx context.Context, stands ...domain.Stand) error
	Stand(ctx context.Context, id string) (domain.Stand, error)
	Stands(ctx context.Context, groundID string) ([]domain.Stand, error)
	DeleteStand(ctx context.Context, id string) error
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.Session) error
	LoadActive(ctx context.Context) (domain.Session, error)
	ClearActive(ctx context.Context) error
}

type PreferenceStore interface {
	SaveGround(ctx context.Context, ground domain.Ground) error
	LoadGround(ctx context.Context) (domain.Ground, error)
}

// Journal exports closed sessions and returns where they were written.
type Journal interface {
	Write(ctx context.Context, session domain.Session, standName string) (string, error)
}
