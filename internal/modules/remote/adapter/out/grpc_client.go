package out

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"ansitzplaner/internal/modules/remote/adapter/out/rpc"
	"ansitzplaner/internal/modules/remote/domain"
)

// clientBackend maps the port onto the RPC contract. It is shared by the
// direct gRPC connection and the plugin-launched driver.
type clientBackend struct {
	client rpc.RemoteStoreClient
}

func (b clientBackend) Select(ctx context.Context, query domain.Query) ([]domain.Record, error) {
	resp, err := b.client.Select(ctx, &rpc.SelectRequest{
		Table:      query.Table,
		Eq:         query.Eq,
		OrderBy:    query.OrderBy,
		Descending: query.Descending,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(resp.Records))
	for _, r := range resp.Records {
		out = append(out, domain.Record(r))
	}
	return out, nil
}

func (b clientBackend) Insert(ctx context.Context, table string, records []domain.Record) error {
	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]any(r))
	}
	return b.client.Insert(ctx, &rpc.InsertRequest{Table: table, Records: rows})
}

func (b clientBackend) Update(ctx context.Context, table, id string, patch domain.Record) error {
	return b.client.Update(ctx, &rpc.UpdateRequest{Table: table, ID: id, Patch: map[string]any(patch)})
}

func (b clientBackend) Delete(ctx context.Context, table, id string) error {
	return b.client.Delete(ctx, &rpc.DeleteRequest{Table: table, ID: id})
}

func (b clientBackend) Upsert(ctx context.Context, table string, record domain.Record) error {
	return b.client.Upsert(ctx, &rpc.UpsertRequest{Table: table, Record: map[string]any(record)})
}

// GRPCBackend talks to a `remote serve` instance over plain gRPC.
type GRPCBackend struct {
	clientBackend
	conn *grpc.ClientConn
}

// DialGRPC creates a lazily connecting client; no I/O happens until the
// first call.
func DialGRPC(address string) (*GRPCBackend, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("create grpc client: %w", err)
	}
	return &GRPCBackend{clientBackend: clientBackend{client: rpc.NewRemoteStoreClient(conn)}, conn: conn}, nil
}

// NewGRPCBackend wraps an existing connection, which the caller owns.
func NewGRPCBackend(conn grpc.ClientConnInterface) *GRPCBackend {
	return &GRPCBackend{clientBackend: clientBackend{client: rpc.NewRemoteStoreClient(conn)}}
}

func (b *GRPCBackend) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}
