package service

import (
	"context"
	"fmt"
	"sort"

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

// StandService writes stands locally first, then remotely; a failed remote
// write is queued for replay.
type StandService struct {
	replicator
	local huntingout.LocalStore
	clock clock.Clock
	idGen id.Generator
}

func NewStandService(remote remotein.Store, sync syncin.Usecase, local huntingout.LocalStore, clk clock.Clock, idGen id.Generator, logger hclog.Logger) *StandService {
	return &StandService{
		replicator: replicator{remote: remote, sync: sync, logger: logging.OrNull(logger)},
		local:      local,
		clock:      clk,
		idGen:      idGen,
	}
}

// List returns the ground's stands and where they were read from.
func (s *StandService) List(ctx context.Context, groundID string) ([]domain.Stand, string, error) {
	records, err := s.remote.Select(ctx, remotedto.SelectInput{
		Table:   remotedto.TableStands,
		Eq:      map[string]string{"revier_id": groundID},
		OrderBy: "name",
	})
	if err == nil {
		var stands []domain.Stand
		stands, err = fromRecords[domain.Stand](records)
		if err == nil {
			return s.refresh(ctx, groundID, stands)
		}
	}
	s.logger.Warn("remote stand list failed, reading local cache", "ground", groundID, "error", err)
	stands, err := s.local.Stands(ctx, groundID)
	if err != nil {
		return nil, "", err
	}
	return stands, dto.SourceLocal, nil
}

func (s *StandService) refresh(ctx context.Context, groundID string, fetched []domain.Stand) ([]domain.Stand, string, error) {
	cached, err := s.local.Stands(ctx, groundID)
	if err != nil {
		return nil, "", err
	}
	if err := s.local.SaveStands(ctx, fetched...); err != nil {
		return nil, "", err
	}
	stands, err := keepPending(ctx, s.replicator, remotedto.TableStands, fetched, cached, func(st domain.Stand) string { return st.ID })
	if err != nil {
		return nil, "", err
	}
	sort.SliceStable(stands, func(i, j int) bool { return stands[i].Name < stands[j].Name })
	return stands, dto.SourceRemote, nil
}

func (s *StandService) Get(ctx context.Context, id string) (domain.Stand, error) {
	return s.local.Stand(ctx, id)
}

// Create returns the stored stand and the queued operation id when the
// remote insert failed.
func (s *StandService) Create(ctx context.Context, stand domain.Stand) (domain.Stand, string, error) {
	stand.ID = s.idGen.New()
	stand.CreatedAt = s.clock.Now()
	stand.Normalize()
	if err := stand.Validate(); err != nil {
		return domain.Stand{}, "", fmt.Errorf("validate stand: %v: %w", err, apperrors.ErrInvalidInput)
	}
	record, err := toRecord(stand)
	if err != nil {
		return domain.Stand{}, "", err
	}
	if err := s.local.SaveStands(ctx, stand); err != nil {
		return domain.Stand{}, "", err
	}
	if err := s.remote.Insert(ctx, remotedto.TableStands, record); err != nil {
		s.logger.Warn("remote stand insert failed, queueing", "stand", stand.ID, "error", err)
		opID, err := s.enqueue(ctx, remotedto.TableStands, syncdto.KindInsert, record)
		return stand, opID, err
	}
	return stand, "", s.confirm(ctx, remotedto.TableStands, stand.ID)
}

func (s *StandService) Update(ctx context.Context, id string, patch domain.StandPatch) (domain.Stand, string, error) {
	if patch.Empty() {
		return domain.Stand{}, "", fmt.Errorf("update stand %s: empty patch: %w", id, apperrors.ErrInvalidInput)
	}
	current, err := s.local.Stand(ctx, id)
	if err != nil {
		return domain.Stand{}, "", err
	}
	updated := patch.Apply(current)
	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return domain.Stand{}, "", fmt.Errorf("validate stand: %v: %w", err, apperrors.ErrInvalidInput)
	}
	record, err := toRecord(patch)
	if err != nil {
		return domain.Stand{}, "", err
	}
	if err := s.local.SaveStands(ctx, updated); err != nil {
		return domain.Stand{}, "", err
	}
	if err := s.remote.Update(ctx, remotedto.TableStands, id, record); err != nil {
		s.logger.Warn("remote stand update failed, queueing", "stand", id, "error", err)
		record["id"] = id
		opID, err := s.enqueue(ctx, remotedto.TableStands, syncdto.KindUpdate, record)
		return updated, opID, err
	}
	return updated, "", s.confirm(ctx, remotedto.TableStands, id)
}

// Remove deletes the stand only; sessions recorded there are kept.
func (s *StandService) Remove(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("remove stand: id is required: %w", apperrors.ErrInvalidInput)
	}
	if err := s.local.DeleteStand(ctx, id); err != nil {
		return "", err
	}
	if err := s.remote.Delete(ctx, remotedto.TableStands, id); err != nil {
		s.logger.Warn("remote stand delete failed, queueing", "stand", id, "error", err)
		return s.enqueue(ctx, remotedto.TableStands, syncdto.KindDelete, remotedto.Record{"id": id})
	}
	return "", nil
}
