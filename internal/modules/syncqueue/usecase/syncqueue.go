package usecase

import (
	"context"
	"fmt"

	"ansitzplaner/internal/modules/syncqueue/domain"
	"ansitzplaner/internal/modules/syncqueue/dto"
	syncin "ansitzplaner/internal/modules/syncqueue/port/in"
	"ansitzplaner/internal/modules/syncqueue/service"
	apperrors "ansitzplaner/internal/platform/errors"
)

type Interactor struct {
	svc *service.Manager
}

func NewInteractor(svc *service.Manager) syncin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Enqueue(ctx context.Context, input dto.EnqueueInput) (dto.OperationOutput, error) {
	op, err := i.svc.Enqueue(ctx, input.Table, domain.Kind(input.Kind), input.Payload)
	if err != nil {
		return dto.OperationOutput{}, err
	}
	return toOperationOutput(op), nil
}

func (i *Interactor) Confirm(ctx context.Context, table, recordID string) error {
	if table == "" || recordID == "" {
		return fmt.Errorf("%w: table and record id are required", apperrors.ErrInvalidInput)
	}
	return i.svc.Confirm(ctx, table, recordID)
}

func (i *Interactor) Drain(ctx context.Context, onConflict func(message string)) (dto.DrainOutput, error) {
	messages := []string{}
	result, err := i.svc.Drain(ctx, func(message string) {
		messages = append(messages, message)
		if onConflict != nil {
			onConflict(message)
		}
	})
	out := dto.DrainOutput{
		Attempted: result.Attempted,
		Replayed:  result.Replayed,
		Conflicts: result.Conflicts,
		Failed:    result.Failed,
		Offline:   result.Offline,
		Skipped:   result.Skipped,
		Messages:  messages,
	}
	if err != nil {
		return out, err
	}
	pending, err := i.svc.Pending(ctx)
	if err != nil {
		return out, err
	}
	out.Remaining = len(pending)
	return out, nil
}

func (i *Interactor) Discard(ctx context.Context, operationID string) error {
	if operationID == "" {
		return fmt.Errorf("%w: operation id is required", apperrors.ErrInvalidInput)
	}
	_, err := i.svc.Discard(ctx, operationID)
	return err
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	pending, err := i.svc.Pending(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	online := i.svc.Online(ctx)
	health, reason := domain.AssessHealth(online, pending, i.svc.Now())
	lastDrain, replayed, conflicts := i.svc.Totals()
	out := dto.StatusOutput{
		Online:      online,
		Health:      string(health),
		Reason:      reason,
		Pending:     make([]dto.OperationOutput, 0, len(pending)),
		LastDrainAt: lastDrain,
		Replayed:    replayed,
		Conflicts:   conflicts,
	}
	for _, op := range pending {
		out.Pending = append(out.Pending, toOperationOutput(op))
	}
	return out, nil
}

func (i *Interactor) RecordState(ctx context.Context, table, recordID string) (dto.RecordStateOutput, error) {
	state, err := i.svc.State(ctx, table, recordID)
	if err != nil {
		return dto.RecordStateOutput{}, err
	}
	return dto.RecordStateOutput{
		Table:       state.Table,
		RecordID:    state.RecordID,
		State:       string(state.State),
		OperationID: state.OperationID,
	}, nil
}

func toOperationOutput(op domain.Operation) dto.OperationOutput {
	return dto.OperationOutput{
		ID:        op.ID,
		Table:     op.Table,
		Kind:      string(op.Kind),
		RecordID:  op.RecordID(),
		CreatedAt: op.CreatedAt,
	}
}
