package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"ansitzplaner/internal/modules/hunting/domain"
	"ansitzplaner/internal/modules/hunting/dto"
	huntingout "ansitzplaner/internal/modules/hunting/port/out"
	remotedto "ansitzplaner/internal/modules/remote/dto"
	remotein "ansitzplaner/internal/modules/remote/port/in"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
	"ansitzplaner/internal/platform/clock"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/id"
	"ansitzplaner/internal/platform/logging"
)

type SessionService struct {
	replicator
	local   huntingout.LocalStore
	journal huntingout.Journal
	clock   clock.Clock
	idGen   id.Generator
}

func NewSessionService(remote remotein.Store, sync syncin.Usecase, local huntingout.LocalStore, journal huntingout.Journal, clk clock.Clock, idGen id.Generator, logger hclog.Logger) *SessionService {
	return &SessionService{
		replicator: replicator{remote: remote, sync: sync, logger: logging.OrNull(logger)},
		local:      local,
		journal:    journal,
		clock:      clk,
		idGen:      idGen,
	}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

// Start opens a session at start, or now when start is zero.
func (s *SessionService) Start(groundID, standID, hunterID string, start time.Time, loc *time.Location, cond domain.Conditions) (domain.Session, error) {
	if start.IsZero() {
		start = s.clock.Now()
	}
	return domain.NewSession(s.idGen.New(), groundID, standID, hunterID, start, loc, cond)
}

// NewSighting stamps a sighting with an id; At defaults to now.
func (s *SessionService) NewSighting(sg domain.Sighting) domain.Sighting {
	now := s.clock.Now()
	sg.ID = s.idGen.New()
	sg.CreatedAt = now
	if sg.At.IsZero() {
		sg.At = now
	}
	return sg
}

type FinalizeResult struct {
	Synced      bool
	Queued      []string
	JournalPath string
}

// Finalize persists a closed session. It is stored locally first, then
// inserted remotely followed by its sightings. Whatever the remote store
// refuses is queued: the session with its sightings when the session
// insert fails, only the sightings when just their insert fails.
func (s *SessionService) Finalize(ctx context.Context, session domain.Session, standName string) (FinalizeResult, error) {
	res := FinalizeResult{}
	if session.Active() {
		return res, fmt.Errorf("finalize session %s: still active: %w", session.ID, apperrors.ErrInvalidInput)
	}
	record, err := toRecord(session)
	if err != nil {
		return res, err
	}
	sightings := make([]remotedto.Record, 0, len(session.Sightings))
	for _, sg := range session.Sightings {
		r, err := toRecord(sg)
		if err != nil {
			return res, err
		}
		sightings = append(sightings, r)
	}
	if err := s.local.SaveSession(ctx, session); err != nil {
		return res, err
	}

	if err := s.remote.Insert(ctx, remotedto.TableSessions, record); err != nil {
		s.logger.Warn("remote session insert failed, queueing", "session", session.ID, "error", err)
		opID, err := s.enqueue(ctx, remotedto.TableSessions, syncdto.KindInsert, record)
		if err != nil {
			return res, err
		}
		res.Queued = append(res.Queued, opID)
		ops, err := s.enqueueAll(ctx, remotedto.TableSightings, sightings)
		res.Queued = append(res.Queued, ops...)
		if err != nil {
			return res, err
		}
	} else {
		if err := s.confirm(ctx, remotedto.TableSessions, session.ID); err != nil {
			return res, err
		}
		if err := s.insertSightings(ctx, session, sightings, &res); err != nil {
			return res, err
		}
	}
	res.Synced = len(res.Queued) == 0

	if s.journal != nil {
		path, err := s.journal.Write(ctx, session, standName)
		if err != nil {
			s.logger.Warn("journal export failed", "session", session.ID, "error", err)
		} else {
			res.JournalPath = path
		}
	}
	s.logger.Debug("session finalized", "session", session.ID, "synced", res.Synced, "queued", len(res.Queued))
	return res, nil
}

func (s *SessionService) insertSightings(ctx context.Context, session domain.Session, records []remotedto.Record, res *FinalizeResult) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.remote.Insert(ctx, remotedto.TableSightings, records...); err != nil {
		s.logger.Warn("remote sighting insert failed, queueing", "session", session.ID, "count", len(records), "error", err)
		ops, err := s.enqueueAll(ctx, remotedto.TableSightings, records)
		res.Queued = append(res.Queued, ops...)
		return err
	}
	ids := make([]string, 0, len(session.Sightings))
	for _, sg := range session.Sightings {
		ids = append(ids, sg.ID)
	}
	return s.confirm(ctx, remotedto.TableSightings, ids...)
}

func (s *SessionService) enqueueAll(ctx context.Context, table string, records []remotedto.Record) ([]string, error) {
	ops := make([]string, 0, len(records))
	for _, record := range records {
		opID, err := s.enqueue(ctx, table, syncdto.KindInsert, record)
		if err != nil {
			return ops, err
		}
		ops = append(ops, opID)
	}
	return ops, nil
}

// List returns the ground's sessions, newest first, and where they were
// read from.
func (s *SessionService) List(ctx context.Context, groundID string) ([]domain.Session, string, error) {
	records, err := s.remote.Select(ctx, remotedto.SelectInput{
		Table:      remotedto.TableSessions,
		Eq:         map[string]string{"revier_id": groundID},
		OrderBy:    "beginn",
		Descending: true,
	})
	if err == nil {
		var sessions []domain.Session
		sessions, err = fromRecords[domain.Session](records)
		if err == nil {
			return s.refresh(ctx, groundID, sessions)
		}
	}
	s.logger.Warn("remote session list failed, reading local cache", "ground", groundID, "error", err)
	sessions, err := s.local.Sessions(ctx, groundID)
	if err != nil {
		return nil, "", err
	}
	sortNewestFirst(sessions)
	return sessions, dto.SourceLocal, nil
}

func (s *SessionService) refresh(ctx context.Context, groundID string, fetched []domain.Session) ([]domain.Session, string, error) {
	cached, err := s.local.Sessions(ctx, groundID)
	if err != nil {
		return nil, "", err
	}
	for _, session := range fetched {
		if err := s.local.SaveSession(ctx, session); err != nil {
			return nil, "", err
		}
	}
	sessions, err := keepPending(ctx, s.replicator, remotedto.TableSessions, fetched, cached, func(x domain.Session) string { return x.ID })
	if err != nil {
		return nil, "", err
	}
	sortNewestFirst(sessions)
	return sessions, dto.SourceRemote, nil
}

func sortNewestFirst(sessions []domain.Session) {
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Start.After(sessions[j].Start) })
}
