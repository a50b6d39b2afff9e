package in

import (
	"context"

	"ansitzplaner/internal/modules/syncqueue/dto"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
)

type CLIHandler struct {
	usecase syncin.Usecase
}

func NewCLIHandler(usecase syncin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Drain(ctx context.Context, onConflict func(message string)) (dto.DrainOutput, error) {
	return h.usecase.Drain(ctx, onConflict)
}

func (h CLIHandler) Discard(ctx context.Context, operationID string) error {
	return h.usecase.Discard(ctx, operationID)
}

func (h CLIHandler) RecordState(ctx context.Context, table, recordID string) (dto.RecordStateOutput, error) {
	return h.usecase.RecordState(ctx, table, recordID)
}
