package usecase

import (
	"sort"

	"ansitzplaner/internal/modules/hunting/domain"
	"ansitzplaner/internal/modules/hunting/dto"
	syncdto "ansitzplaner/internal/modules/syncqueue/dto"
	weatherdto "ansitzplaner/internal/modules/weather/dto"
)

func toGroundOutput(g domain.Ground) dto.GroundOutput {
	settings := g.Settings.Normalize()
	perms := g.Role.Permissions()
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}
	seasons := make(map[string]dto.SeasonOutput, len(settings.Seasons))
	for species, season := range settings.Seasons {
		if season == nil {
			continue
		}
		seasons[species] = dto.SeasonOutput{From: season.From, To: season.To}
	}
	species := append([]string(nil), settings.DefaultSpecies...)
	sort.Strings(species)
	return dto.GroundOutput{
		ID:             g.ID,
		Name:           g.Name,
		Role:           string(g.Role.Effective()),
		Permissions:    names,
		Timezone:       settings.Timezone,
		DefaultSpecies: species,
		Seasons:        seasons,
		HeatmapEnabled: settings.HeatmapOn(),
	}
}

func fromStandInput(in dto.StandInput) domain.Stand {
	return domain.Stand{
		Type:            domain.StandType(in.Type),
		Name:            in.Name,
		Description:     in.Description,
		Position:        domain.Position{Lat: in.Position.Lat, Lng: in.Position.Lng},
		HeightM:         in.HeightM,
		OrientationDeg:  in.OrientationDeg,
		VisibilityM:     in.VisibilityM,
		Condition:       domain.Condition(in.Condition),
		LastMaintenance: in.LastMaintenance,
		NextMaintenance: in.NextMaintenance,
		Notes:           in.Notes,
		FavorableWinds:  in.FavorableWinds,
	}
}

func fromStandPatch(in dto.StandPatchInput) domain.StandPatch {
	patch := domain.StandPatch{
		Name:            in.Name,
		Description:     in.Description,
		HeightM:         in.HeightM,
		OrientationDeg:  in.OrientationDeg,
		VisibilityM:     in.VisibilityM,
		LastMaintenance: in.LastMaintenance,
		NextMaintenance: in.NextMaintenance,
		Notes:           in.Notes,
		FavorableWinds:  in.FavorableWinds,
	}
	if in.Type != nil {
		t := domain.StandType(*in.Type)
		patch.Type = &t
	}
	if in.Condition != nil {
		c := domain.Condition(*in.Condition)
		patch.Condition = &c
	}
	if in.Position != nil {
		patch.Position = &domain.Position{Lat: in.Position.Lat, Lng: in.Position.Lng}
	}
	return patch
}

func toStandOutput(s domain.Stand) dto.StandOutput {
	return dto.StandOutput{
		ID:              s.ID,
		GroundID:        s.GroundID,
		Type:            string(s.Type),
		Name:            s.Name,
		Description:     s.Description,
		Position:        dto.Position{Lat: s.Position.Lat, Lng: s.Position.Lng},
		HeightM:         s.HeightM,
		OrientationDeg:  s.OrientationDeg,
		VisibilityM:     s.VisibilityM,
		Condition:       string(s.Condition),
		LastMaintenance: s.LastMaintenance,
		NextMaintenance: s.NextMaintenance,
		Notes:           s.Notes,
		FavorableWinds:  append([]string{}, s.FavorableWinds...),
		CreatedAt:       s.CreatedAt,
	}
}

func standWrite(s domain.Stand, opID string) dto.StandWriteOutput {
	out := dto.StandWriteOutput{Stand: toStandOutput(s)}
	out.Stand.State = syncdto.StateConfirmed
	if opID != "" {
		out.Stand.State = syncdto.StatePending
		out.Queued = true
		out.OperationID = opID
	}
	return out
}

func fromSightingInput(in dto.SightingInput) domain.Sighting {
	sg := domain.Sighting{
		Species:   in.Species,
		Count:     in.Count,
		Sex:       domain.Sex(in.Sex),
		Behavior:  domain.Behavior(in.Behavior),
		At:        in.At,
		DistanceM: in.DistanceM,
		Notes:     in.Notes,
	}
	if in.Position != nil {
		sg.Position = &domain.Position{Lat: in.Position.Lat, Lng: in.Position.Lng}
	}
	return sg
}

func fromHarvestInput(in dto.HarvestInput) domain.Harvest {
	return domain.Harvest{
		Species:  in.Species,
		Count:    in.Count,
		Sex:      domain.Sex(in.Sex),
		AgeYears: in.AgeYears,
		WeightKG: in.WeightKG,
		Notes: domain.HarvestDetails{
			Weapon:   in.Weapon,
			Caliber:  in.Caliber,
			Hit:      in.Hit,
			Tracking: in.Tracking,
			Note:     in.Notes,
		}.Summary(),
	}
}

func fromWeather(w weatherdto.ConditionsOutput, moon *string) domain.Conditions {
	temp, cloud, pressure := w.TemperatureC, w.CloudCoverPct, w.PressureHPa
	bft := w.WindBeaufort
	cond := domain.Conditions{
		TemperatureC:  &temp,
		WindBeaufort:  &bft,
		Precipitation: w.Precipitation,
		CloudCoverPct: &cloud,
		PressureHPa:   &pressure,
		MoonPhase:     moon,
	}
	if w.WindDirection != "" {
		dir := w.WindDirection
		cond.WindDirection = &dir
	}
	if w.MoonPhase != "" {
		phase := w.MoonPhase
		cond.MoonPhase = &phase
	}
	// Out-of-range readings are malformed and recorded as unknown.
	if pressure < 900 || pressure > 1100 {
		cond.PressureHPa = nil
	}
	if temp < -40 || temp > 50 {
		cond.TemperatureC = nil
	}
	return cond
}

func toSessionOutput(s domain.Session) dto.SessionOutput {
	out := dto.SessionOutput{
		ID:        s.ID,
		GroundID:  s.GroundID,
		StandID:   s.StandID,
		HunterID:  s.HunterID,
		Date:      s.Date,
		Start:     s.Start,
		End:       s.End,
		Success:   s.Success,
		Sightings: make([]dto.SightingOutput, 0, len(s.Sightings)),
		Notes:     s.Notes,
		Conditions: dto.ConditionsOutput{
			TemperatureC:  s.Conditions.TemperatureC,
			WindBeaufort:  s.Conditions.WindBeaufort,
			Precipitation: s.Conditions.Precipitation,
			CloudCoverPct: s.Conditions.CloudCoverPct,
			PressureHPa:   s.Conditions.PressureHPa,
		},
	}
	if s.Conditions.WindDirection != nil {
		out.Conditions.WindDirection = *s.Conditions.WindDirection
	}
	if s.Conditions.MoonPhase != nil {
		out.Conditions.MoonPhase = *s.Conditions.MoonPhase
	}
	if s.Harvest != nil {
		out.Harvest = &dto.HarvestOutput{
			Species:  s.Harvest.Species,
			Count:    s.Harvest.Count,
			Sex:      string(s.Harvest.Sex),
			AgeYears: s.Harvest.AgeYears,
			WeightKG: s.Harvest.WeightKG,
			Notes:    s.Harvest.Notes,
		}
	}
	for _, sg := range s.Sightings {
		row := dto.SightingOutput{
			ID:        sg.ID,
			Species:   sg.Species,
			Count:     sg.Count,
			Sex:       string(sg.Sex),
			Behavior:  string(sg.Behavior),
			At:        sg.At,
			DistanceM: sg.DistanceM,
			Notes:     sg.Notes,
		}
		if sg.Position != nil {
			row.Position = &dto.Position{Lat: sg.Position.Lat, Lng: sg.Position.Lng}
		}
		out.Sightings = append(out.Sightings, row)
	}
	return out
}
