package in

import (
	"context"

	"ansitzplaner/internal/modules/remote/dto"
)

// Store is the table-scoped remote surface. Errors are classified: a
// uniqueness violation wraps apperrors.ErrConflict, every other failure
// wraps apperrors.ErrRemoteUnavailable.
type Store interface {
	Select(ctx context.Context, input dto.SelectInput) ([]dto.Record, error)
	Insert(ctx context.Context, table string, records ...dto.Record) error
	Update(ctx context.Context, table, id string, patch dto.Record) error
	Delete(ctx context.Context, table, id string) error
	Upsert(ctx context.Context, table string, record dto.Record) error
}
