package in

import (
	"context"

	"ansitzplaner/internal/modules/hunting/dto"
)

type Usecase interface {
	UseGround(ctx context.Context, input dto.GroundInput) (dto.GroundOutput, error)
	ActiveGround(ctx context.Context) (dto.GroundOutput, error)

	ListStands(ctx context.Context) (dto.StandsOutput, error)
	CreateStand(ctx context.Context, input dto.StandInput) (dto.StandWriteOutput, error)
	UpdateStand(ctx context.Context, id string, input dto.StandPatchInput) (dto.StandWriteOutput, error)
	RemoveStand(ctx context.Context, id string) (dto.WriteOutput, error)

	StartSession(ctx context.Context, input dto.StartSessionInput) (dto.SessionOutput, error)
	AddSighting(ctx context.Context, input dto.SightingInput) (dto.SessionOutput, error)
	SetHarvest(ctx context.Context, input dto.HarvestInput) (dto.SessionOutput, error)
	EndSession(ctx context.Context, input dto.EndSessionInput) (dto.EndSessionOutput, error)
	ActiveSession(ctx context.Context) (dto.SessionOutput, error)
	ListSessions(ctx context.Context) (dto.SessionsOutput, error)
}
