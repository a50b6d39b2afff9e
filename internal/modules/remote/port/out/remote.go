package out

import (
	"context"

	"ansitzplaner/internal/modules/remote/domain"
)

// Backend executes store calls against a concrete transport. Errors carry a
// gRPC status where the transport has one.
type Backend interface {
	Select(ctx context.Context, query domain.Query) ([]domain.Record, error)
	Insert(ctx context.Context, table string, records []domain.Record) error
	Update(ctx context.Context, table, id string, patch domain.Record) error
	Delete(ctx context.Context, table, id string) error
	Upsert(ctx context.Context, table string, record domain.Record) error
}

type DriverManifestStore interface {
	Load(ctx context.Context) ([]domain.DriverManifest, error)
}
