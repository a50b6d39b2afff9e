package out

import (
	"context"
	"database/sql"

	"ansitzplaner/internal/modules/hunting/domain"
	huntingout "ansitzplaner/internal/modules/hunting/port/out"
	"ansitzplaner/internal/platform/sqlitedb"
	"ansitzplaner/internal/platform/tx"
)

// SQLiteStore keeps sessions and stands grouped by ground and sightings
// grouped by session.
type SQLiteStore struct {
	tx        tx.Manager
	sessions  *sqlitedb.Collection[domain.Session]
	sightings *sqlitedb.Collection[domain.Sighting]
	stands    *sqlitedb.Collection[domain.Stand]
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (huntingout.LocalStore, error) {
	sessions, err := sqlitedb.NewCollection[domain.Session](ctx, db, "ansitze")
	if err != nil {
		return nil, err
	}
	sightings, err := sqlitedb.NewCollection[domain.Sighting](ctx, db, "beobachtungen")
	if err != nil {
		return nil, err
	}
	stands, err := sqlitedb.NewCollection[domain.Stand](ctx, db, "ansitzeinrichtungen")
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{tx: sqlitedb.NewTxManager(db), sessions: sessions, sightings: sightings, stands: stands}, nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, session domain.Session) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.sessions.Put(ctx, session.ID, session.GroundID, session); err != nil {
			return err
		}
		for _, sg := range session.Sightings {
			if err := s.sightings.Put(ctx, sg.ID, session.ID, sg); err != nil {
				return err
			}
		}
		return nil
	})
}

// Sessions fills in sightings from their own collection when a stored
// session document carries none.
func (s *SQLiteStore) Sessions(ctx context.Context, groundID string) ([]domain.Session, error) {
	sessions, err := s.sessions.ListByIndex(ctx, groundID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if len(sessions[i].Sightings) > 0 {
			continue
		}
		sightings, err := s.sightings.ListByIndex(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Sightings = sightings
	}
	return sessions, nil
}

func (s *SQLiteStore) Sightings(ctx context.Context, sessionID string) ([]domain.Sighting, error) {
	return s.sightings.ListByIndex(ctx, sessionID)
}

func (s *SQLiteStore) SaveStands(ctx context.Context, stands ...domain.Stand) error {
	if len(stands) == 0 {
		return nil
	}
	return s.tx.Within(ctx, func(ctx context.Context) error {
		for _, st := range stands {
			if err := s.stands.Put(ctx, st.ID, st.GroundID, st); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Stand(ctx context.Context, id string) (domain.Stand, error) {
	return s.stands.Get(ctx, id)
}

func (s *SQLiteStore) Stands(ctx context.Context, groundID string) ([]domain.Stand, error) {
	return s.stands.ListByIndex(ctx, groundID)
}

func (s *SQLiteStore) DeleteStand(ctx context.Context, id string) error {
	return s.stands.Delete(ctx, id)
}
