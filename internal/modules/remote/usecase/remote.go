package usecase

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ansitzplaner/internal/modules/remote/domain"
	"ansitzplaner/internal/modules/remote/dto"
	remotein "ansitzplaner/internal/modules/remote/port/in"
	remoteout "ansitzplaner/internal/modules/remote/port/out"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/logging"
)

const defaultCallTimeout = 5 * time.Second

type Interactor struct {
	backend remoteout.Backend
	timeout time.Duration
	logger  hclog.Logger
}

// NewInteractor wraps backend with per-call deadlines and error
// classification. A nil backend behaves as a permanently unreachable remote.
func NewInteractor(backend remoteout.Backend, timeout time.Duration, logger hclog.Logger) remotein.Store {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Interactor{backend: backend, timeout: timeout, logger: logging.OrNull(logger)}
}

func (i *Interactor) Select(ctx context.Context, input dto.SelectInput) ([]dto.Record, error) {
	query := domain.Query{Table: input.Table, Eq: input.Eq, OrderBy: input.OrderBy, Descending: input.Descending}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if i.backend == nil {
		return nil, fmt.Errorf("select %s: %w", input.Table, apperrors.ErrRemoteUnavailable)
	}
	callCtx, cancel := i.callContext(ctx)
	defer cancel()
	rows, err := i.backend.Select(callCtx, query)
	if err != nil {
		return nil, i.classify("select", input.Table, err)
	}
	out := make([]dto.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.Record(row))
	}
	return out, nil
}

func (i *Interactor) Insert(ctx context.Context, table string, records ...dto.Record) error {
	if err := domain.ValidateTable(table); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([]domain.Record, 0, len(records))
	for _, r := range records {
		row := domain.Record(r)
		if row.ID() == "" {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, domain.ErrMissingID)
		}
		rows = append(rows, row)
	}
	if i.backend == nil {
		return fmt.Errorf("insert %s: %w", table, apperrors.ErrRemoteUnavailable)
	}
	callCtx, cancel := i.callContext(ctx)
	defer cancel()
	if err := i.backend.Insert(callCtx, table, rows); err != nil {
		return i.classify("insert", table, err)
	}
	return nil
}

func (i *Interactor) Update(ctx context.Context, table, id string, patch dto.Record) error {
	if err := domain.ValidateTable(table); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if id == "" {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, domain.ErrMissingID)
	}
	if i.backend == nil {
		return fmt.Errorf("update %s: %w", table, apperrors.ErrRemoteUnavailable)
	}
	callCtx, cancel := i.callContext(ctx)
	defer cancel()
	if err := i.backend.Update(callCtx, table, id, domain.Record(patch)); err != nil {
		return i.classify("update", table, err)
	}
	return nil
}

func (i *Interactor) Delete(ctx context.Context, table, id string) error {
	if err := domain.ValidateTable(table); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if id == "" {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, domain.ErrMissingID)
	}
	if i.backend == nil {
		return fmt.Errorf("delete %s: %w", table, apperrors.ErrRemoteUnavailable)
	}
	callCtx, cancel := i.callContext(ctx)
	defer cancel()
	if err := i.backend.Delete(callCtx, table, id); err != nil {
		return i.classify("delete", table, err)
	}
	return nil
}

func (i *Interactor) Upsert(ctx context.Context, table string, record dto.Record) error {
	if err := domain.ValidateTable(table); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	row := domain.Record(record)
	if row.ID() == "" {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, domain.ErrMissingID)
	}
	if i.backend == nil {
		return fmt.Errorf("upsert %s: %w", table, apperrors.ErrRemoteUnavailable)
	}
	callCtx, cancel := i.callContext(ctx)
	defer cancel()
	if err := i.backend.Upsert(callCtx, table, row); err != nil {
		return i.classify("upsert", table, err)
	}
	return nil
}

func (i *Interactor) classify(verb, table string, err error) error {
	if status.Code(err) == codes.AlreadyExists {
		i.logger.Debug("remote conflict", "op", verb, "table", table, "error", err)
		return fmt.Errorf("%s %s: %w: %v", verb, table, apperrors.ErrConflict, err)
	}
	i.logger.Debug("remote unavailable", "op", verb, "table", table, "error", err)
	return fmt.Errorf("%s %s: %w: %v", verb, table, apperrors.ErrRemoteUnavailable, err)
}

func (i *Interactor) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, i.timeout)
}
