package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ansitzplaner/internal/modules/syncqueue/domain"
	syncout "ansitzplaner/internal/modules/syncqueue/port/out"
	apperrors "ansitzplaner/internal/platform/errors"
	"ansitzplaner/internal/platform/sqlitedb"
)

type SQLiteQueue struct {
	ops *sqlitedb.Collection[domain.Operation]
}

func NewSQLiteQueue(ctx context.Context, db *sql.DB) (syncout.Queue, error) {
	ops, err := sqlitedb.NewCollection[domain.Operation](ctx, db, "sync_queue")
	if err != nil {
		return nil, err
	}
	return &SQLiteQueue{ops: ops}, nil
}

func (q *SQLiteQueue) Append(ctx context.Context, op domain.Operation) error {
	return q.ops.Put(ctx, op.ID, op.Table, op)
}

// List returns operations in the order they were appended.
func (q *SQLiteQueue) List(ctx context.Context) ([]domain.Operation, error) {
	return q.ops.List(ctx)
}

func (q *SQLiteQueue) Get(ctx context.Context, id string) (domain.Operation, error) {
	op, err := q.ops.Get(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Operation{}, fmt.Errorf("%w: %s: %w", domain.ErrOperationNotFound, id, apperrors.ErrNotFound)
	}
	return op, err
}

func (q *SQLiteQueue) Remove(ctx context.Context, id string) error {
	return q.ops.Delete(ctx, id)
}

type SQLiteConfirmationStore struct {
	confirmations *sqlitedb.Collection[domain.Confirmation]
}

func NewSQLiteConfirmationStore(ctx context.Context, db *sql.DB) (syncout.ConfirmationStore, error) {
	c, err := sqlitedb.NewCollection[domain.Confirmation](ctx, db, "sync_confirmations")
	if err != nil {
		return nil, err
	}
	return &SQLiteConfirmationStore{confirmations: c}, nil
}

func (s *SQLiteConfirmationStore) Confirm(ctx context.Context, c domain.Confirmation) error {
	return s.confirmations.Put(ctx, domain.ConfirmationKey(c.Table, c.RecordID), c.Table, c)
}

func (s *SQLiteConfirmationStore) Confirmed(ctx context.Context, table, recordID string) (bool, error) {
	_, err := s.confirmations.Get(ctx, domain.ConfirmationKey(table, recordID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
