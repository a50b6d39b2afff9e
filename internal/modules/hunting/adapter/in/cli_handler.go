package in

import (
	"context"

	"ansitzplaner/internal/modules/hunting/dto"
	huntingin "ansitzplaner/internal/modules/hunting/port/in"
)

type CLIHandler struct {
	usecase huntingin.Usecase
}

func NewCLIHandler(usecase huntingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) UseGround(ctx context.Context, input dto.GroundInput) (dto.GroundOutput, error) {
	return h.usecase.UseGround(ctx, input)
}

func (h CLIHandler) ActiveGround(ctx context.Context) (dto.GroundOutput, error) {
	return h.usecase.ActiveGround(ctx)
}

func (h CLIHandler) ListStands(ctx context.Context) (dto.StandsOutput, error) {
	return h.usecase.ListStands(ctx)
}

func (h CLIHandler) AddStand(ctx context.Context, input dto.StandInput) (dto.StandWriteOutput, error) {
	return h.usecase.CreateStand(ctx, input)
}

func (h CLIHandler) UpdateStand(ctx context.Context, id string, input dto.StandPatchInput) (dto.StandWriteOutput, error) {
	return h.usecase.UpdateStand(ctx, id, input)
}

func (h CLIHandler) RemoveStand(ctx context.Context, id string) (dto.WriteOutput, error) {
	return h.usecase.RemoveStand(ctx, id)
}

func (h CLIHandler) Start(ctx context.Context, standID, notes string) (dto.SessionOutput, error) {
	return h.usecase.StartSession(ctx, dto.StartSessionInput{StandID: standID, Notes: notes})
}

func (h CLIHandler) Sighting(ctx context.Context, input dto.SightingInput) (dto.SessionOutput, error) {
	return h.usecase.AddSighting(ctx, input)
}

func (h CLIHandler) Harvest(ctx context.Context, input dto.HarvestInput) (dto.SessionOutput, error) {
	return h.usecase.SetHarvest(ctx, input)
}

func (h CLIHandler) End(ctx context.Context, sessionID string, success bool, notes string) (dto.EndSessionOutput, error) {
	return h.usecase.EndSession(ctx, dto.EndSessionInput{SessionID: sessionID, Success: success, Notes: notes})
}

func (h CLIHandler) Active(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.ActiveSession(ctx)
}

func (h CLIHandler) ListSessions(ctx context.Context) (dto.SessionsOutput, error) {
	return h.usecase.ListSessions(ctx)
}
