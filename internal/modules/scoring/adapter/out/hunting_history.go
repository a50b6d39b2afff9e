package out

import (
	"context"
	"time"

	huntingdto "ansitzplaner/internal/modules/hunting/dto"
	huntingin "ansitzplaner/internal/modules/hunting/port/in"
	"ansitzplaner/internal/modules/scoring/domain"
	scoringout "ansitzplaner/internal/modules/scoring/port/out"
)

// HuntingHistory projects the hunting log onto the scoring model.
type HuntingHistory struct {
	hunting huntingin.Usecase
}

func NewHuntingHistory(hunting huntingin.Usecase) scoringout.History {
	return &HuntingHistory{hunting: hunting}
}

func (h *HuntingHistory) Ground(ctx context.Context) (domain.Ground, error) {
	g, err := h.hunting.ActiveGround(ctx)
	if err != nil {
		return domain.Ground{}, err
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return domain.Ground{
		ID:                g.ID,
		Name:              g.Name,
		Location:          loc,
		HeatmapEnabled:    g.HeatmapEnabled,
		CanViewStatistics: g.Can(huntingdto.PermissionViewStatistics),
	}, nil
}

func (h *HuntingHistory) Stands(ctx context.Context) ([]domain.Stand, string, error) {
	res, err := h.hunting.ListStands(ctx)
	if err != nil {
		return nil, "", err
	}
	out := make([]domain.Stand, 0, len(res.Stands))
	for _, st := range res.Stands {
		out = append(out, domain.Stand{
			ID:             st.ID,
			Name:           st.Name,
			FavorableWinds: st.FavorableWinds,
			Lat:            st.Position.Lat,
			Lng:            st.Position.Lng,
		})
	}
	return out, res.Source, nil
}

func (h *HuntingHistory) Sessions(ctx context.Context) ([]domain.Session, string, error) {
	res, err := h.hunting.ListSessions(ctx)
	if err != nil {
		return nil, "", err
	}
	out := make([]domain.Session, 0, len(res.Sessions))
	for _, s := range res.Sessions {
		session := domain.Session{
			ID:        s.ID,
			StandID:   s.StandID,
			Start:     s.Start,
			End:       s.End,
			Success:   s.Success,
			MoonPhase: s.Conditions.MoonPhase,
			Sightings: make([]domain.Sighting, 0, len(s.Sightings)),
		}
		for _, sg := range s.Sightings {
			session.Sightings = append(session.Sightings, domain.Sighting{Species: sg.Species, Count: sg.Count, At: sg.At})
		}
		if s.Harvest != nil {
			session.HarvestSpecies = s.Harvest.Species
		}
		out = append(out, session)
	}
	return out, res.Source, nil
}
