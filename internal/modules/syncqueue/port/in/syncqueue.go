package in

import (
	"context"

	"ansitzplaner/internal/modules/syncqueue/dto"
)

type Usecase interface {
	Enqueue(ctx context.Context, input dto.EnqueueInput) (dto.OperationOutput, error)
	Confirm(ctx context.Context, table, recordID string) error
	Drain(ctx context.Context, onConflict func(message string)) (dto.DrainOutput, error)
	Discard(ctx context.Context, operationID string) error
	Status(ctx context.Context) (dto.StatusOutput, error)
	RecordState(ctx context.Context, table, recordID string) (dto.RecordStateOutput, error)
}
