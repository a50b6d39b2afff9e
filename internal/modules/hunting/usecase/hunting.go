package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"ansitzplaner/internal/modules/hunting/domain"
	"ansitzplaner/internal/modules/hunting/dto"
	huntingin "ansitzplaner/internal/modules/hunting/port/in"
	huntingout "ansitzplaner/internal/modules/hunting/port/out"
	"ansitzplaner/internal/modules/hunting/service"
	remotedto "ansitzplaner/internal/modules/remote/dto"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
	weatherdto "ansitzplaner/internal/modules/weather/dto"
	weatherin "ansitzplaner/internal/modules/weather/port/in"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/logging"
)

type Interactor struct {
	stands      *service.StandService
	sessions    *service.SessionService
	activeStore huntingout.ActiveSessionStore
	preferences huntingout.PreferenceStore
	weather     weatherin.Usecase
	sync        syncin.Usecase
	hunterID    string
	logger      hclog.Logger
}

type Deps struct {
	Stands      *service.StandService
	Sessions    *service.SessionService
	ActiveStore huntingout.ActiveSessionStore
	Preferences huntingout.PreferenceStore
	Weather     weatherin.Usecase
	Sync        syncin.Usecase
	HunterID    string
	Logger      hclog.Logger
}

func NewInteractor(deps Deps) huntingin.Usecase {
	return &Interactor{
		stands:      deps.Stands,
		sessions:    deps.Sessions,
		activeStore: deps.ActiveStore,
		preferences: deps.Preferences,
		weather:     deps.Weather,
		sync:        deps.Sync,
		hunterID:    deps.HunterID,
		logger:      logging.OrNull(deps.Logger),
	}
}

func (i *Interactor) UseGround(ctx context.Context, input dto.GroundInput) (dto.GroundOutput, error) {
	ground := domain.Ground{
		ID:   input.ID,
		Name: input.Name,
		Role: domain.Role(input.Role),
		Settings: domain.Settings{
			DefaultSpecies: input.DefaultSpecies,
			Timezone:       input.Timezone,
			HeatmapEnabled: input.HeatmapEnabled,
		}.Normalize(),
	}
	for species, season := range input.Seasons {
		ground.Settings.Seasons[species] = &domain.Season{From: season.From, To: season.To}
	}
	if err := ground.Validate(); err != nil {
		return dto.GroundOutput{}, fmt.Errorf("validate ground: %v: %w", err, apperrors.ErrInvalidInput)
	}
	if err := i.preferences.SaveGround(ctx, ground); err != nil {
		return dto.GroundOutput{}, err
	}
	return toGroundOutput(ground), nil
}

func (i *Interactor) ActiveGround(ctx context.Context) (dto.GroundOutput, error) {
	ground, err := i.preferences.LoadGround(ctx)
	if err != nil {
		return dto.GroundOutput{}, err
	}
	return toGroundOutput(ground), nil
}

func (i *Interactor) require(ctx context.Context, perm domain.Permission) (domain.Ground, error) {
	ground, err := i.preferences.LoadGround(ctx)
	if err != nil {
		return domain.Ground{}, err
	}
	if !ground.Role.Can(perm) {
		return domain.Ground{}, fmt.Errorf("%s as %s: %w", perm, ground.Role.Effective(), apperrors.ErrForbidden)
	}
	return ground, nil
}

func (i *Interactor) ListStands(ctx context.Context) (dto.StandsOutput, error) {
	ground, err := i.preferences.LoadGround(ctx)
	if err != nil {
		return dto.StandsOutput{}, err
	}
	stands, source, err := i.stands.List(ctx, ground.ID)
	if err != nil {
		return dto.StandsOutput{}, err
	}
	out := dto.StandsOutput{Stands: make([]dto.StandOutput, 0, len(stands)), Source: source}
	for _, st := range stands {
		state, err := i.state(ctx, remotedto.TableStands, st.ID, source)
		if err != nil {
			return dto.StandsOutput{}, err
		}
		row := toStandOutput(st)
		row.State = state
		out.Stands = append(out.Stands, row)
	}
	return out, nil
}

// state treats records read from the remote store as confirmed unless a
// newer write is still queued.
func (i *Interactor) state(ctx context.Context, table, id, source string) (string, error) {
	st, err := i.sync.RecordState(ctx, table, id)
	if err != nil {
		return "", err
	}
	if st.State == syncdto.StateLocal && source == dto.SourceRemote {
		return syncdto.StateConfirmed, nil
	}
	return st.State, nil
}

func (i *Interactor) CreateStand(ctx context.Context, input dto.StandInput) (dto.StandWriteOutput, error) {
	ground, err := i.require(ctx, domain.PermManageStands)
	if err != nil {
		return dto.StandWriteOutput{}, err
	}
	stand := fromStandInput(input)
	stand.GroundID = ground.ID
	stand.CreatedBy = i.hunterID
	created, opID, err := i.stands.Create(ctx, stand)
	if err != nil {
		return dto.StandWriteOutput{}, err
	}
	return standWrite(created, opID), nil
}

func (i *Interactor) UpdateStand(ctx context.Context, id string, input dto.StandPatchInput) (dto.StandWriteOutput, error) {
	ground, err := i.require(ctx, domain.PermManageStands)
	if err != nil {
		return dto.StandWriteOutput{}, err
	}
	current, err := i.stands.Get(ctx, id)
	if err != nil {
		return dto.StandWriteOutput{}, err
	}
	if current.GroundID != ground.ID {
		return dto.StandWriteOutput{}, fmt.Errorf("stand %s in ground %s: %w", id, ground.ID, apperrors.ErrNotFound)
	}
	updated, opID, err := i.stands.Update(ctx, id, fromStandPatch(input))
	if err != nil {
		return dto.StandWriteOutput{}, err
	}
	return standWrite(updated, opID), nil
}

func (i *Interactor) RemoveStand(ctx context.Context, id string) (dto.WriteOutput, error) {
	ground, err := i.require(ctx, domain.PermManageStands)
	if err != nil {
		return dto.WriteOutput{}, err
	}
	current, err := i.stands.Get(ctx, id)
	switch {
	case err == nil && current.GroundID != ground.ID:
		return dto.WriteOutput{}, fmt.Errorf("stand %s in ground %s: %w", id, ground.ID, apperrors.ErrNotFound)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return dto.WriteOutput{}, err
	}
	opID, err := i.stands.Remove(ctx, id)
	if err != nil {
		return dto.WriteOutput{}, err
	}
	return dto.WriteOutput{Queued: opID != "", OperationID: opID}, nil
}

func (i *Interactor) StartSession(ctx context.Context, input dto.StartSessionInput) (dto.SessionOutput, error) {
	ground, err := i.require(ctx, domain.PermCreateSessions)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if _, err := i.activeStore.LoadActive(ctx); err == nil {
		return dto.SessionOutput{}, apperrors.ErrActiveSessionExists
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return dto.SessionOutput{}, err
	}
	stand, err := i.findStand(ctx, ground.ID, input.StandID)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	start := input.Start
	if start.IsZero() {
		start = i.sessions.Now()
	}
	session, err := i.sessions.Start(ground.ID, stand.ID, i.hunterID, start, ground.Settings.Location(), i.snapshot(ctx, stand, start))
	if err != nil {
		return dto.SessionOutput{}, err
	}
	session.Notes = input.Notes
	if err := i.activeStore.SaveActive(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

// findStand reads the local cache and refreshes it once on a miss.
func (i *Interactor) findStand(ctx context.Context, groundID, standID string) (domain.Stand, error) {
	if standID == "" {
		return domain.Stand{}, fmt.Errorf("stand id is required: %w", apperrors.ErrInvalidInput)
	}
	stand, err := i.stands.Get(ctx, standID)
	if err == nil && stand.GroundID == groundID {
		return stand, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.Stand{}, err
	}
	stands, _, err := i.stands.List(ctx, groundID)
	if err != nil {
		return domain.Stand{}, err
	}
	for _, st := range stands {
		if st.ID == standID {
			return st, nil
		}
	}
	return domain.Stand{}, fmt.Errorf("stand %s: %w", standID, apperrors.ErrNotFound)
}

// snapshot records the weather at the stand. Weather failures leave the
// fields unknown; the moon phase does not depend on the location.
func (i *Interactor) snapshot(ctx context.Context, stand domain.Stand, at time.Time) domain.Conditions {
	cond := domain.Conditions{}
	if i.weather == nil {
		return cond
	}
	if astro, err := i.weather.Astronomy(ctx, weatherdto.AstronomyInput{Lat: stand.Position.Lat, Lng: stand.Position.Lng, At: at}); err == nil {
		cond.MoonPhase = &astro.MoonPhase
	}
	if !stand.Position.Known() {
		return cond
	}
	current, err := i.weather.Current(ctx, weatherdto.CoordinateInput{Lat: stand.Position.Lat, Lng: stand.Position.Lng})
	if err != nil {
		i.logger.Warn("weather unavailable, starting without conditions", "stand", stand.ID, "error", err)
		return cond
	}
	return fromWeather(current, cond.MoonPhase)
}

func (i *Interactor) AddSighting(ctx context.Context, input dto.SightingInput) (dto.SessionOutput, error) {
	session, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	sighting := i.sessions.NewSighting(fromSightingInput(input))
	if err := session.AddSighting(sighting); err != nil {
		return dto.SessionOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) SetHarvest(ctx context.Context, input dto.HarvestInput) (dto.SessionOutput, error) {
	session, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	if err := session.SetHarvest(fromHarvestInput(input)); err != nil {
		return dto.SessionOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, session); err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

func (i *Interactor) EndSession(ctx context.Context, input dto.EndSessionInput) (dto.EndSessionOutput, error) {
	session, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dto.EndSessionOutput{}, err
	}
	if input.SessionID != "" && input.SessionID != session.ID {
		return dto.EndSessionOutput{}, fmt.Errorf("session id mismatch: %w", apperrors.ErrInvalidInput)
	}
	end := input.End
	if end.IsZero() {
		end = i.sessions.Now()
	}
	if err := session.Close(end, input.Success, input.Notes); err != nil {
		return dto.EndSessionOutput{}, err
	}
	standName := session.StandID
	if stand, err := i.stands.Get(ctx, session.StandID); err == nil {
		standName = stand.Name
	}
	res, err := i.sessions.Finalize(ctx, session, standName)
	if err != nil {
		return dto.EndSessionOutput{}, err
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return dto.EndSessionOutput{}, err
	}
	out := toSessionOutput(session)
	out.State = syncdto.StateConfirmed
	if !res.Synced {
		out.State = syncdto.StatePending
	}
	return dto.EndSessionOutput{Session: out, Synced: res.Synced, Queued: len(res.Queued), JournalPath: res.JournalPath}, nil
}

func (i *Interactor) ActiveSession(ctx context.Context) (dto.SessionOutput, error) {
	session, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	out := toSessionOutput(session)
	out.State = syncdto.StateLocal
	return out, nil
}

func (i *Interactor) ListSessions(ctx context.Context) (dto.SessionsOutput, error) {
	ground, err := i.preferences.LoadGround(ctx)
	if err != nil {
		return dto.SessionsOutput{}, err
	}
	sessions, source, err := i.sessions.List(ctx, ground.ID)
	if err != nil {
		return dto.SessionsOutput{}, err
	}
	out := dto.SessionsOutput{Sessions: make([]dto.SessionOutput, 0, len(sessions)), Source: source}
	for _, s := range sessions {
		state, err := i.state(ctx, remotedto.TableSessions, s.ID, source)
		if err != nil {
			return dto.SessionsOutput{}, err
		}
		row := toSessionOutput(s)
		row.State = state
		out.Sessions = append(out.Sessions, row)
	}
	return out, nil
}
