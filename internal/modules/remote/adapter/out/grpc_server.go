package out

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"ansitzplaner/internal/modules/remote/adapter/out/rpc"
	"ansitzplaner/internal/modules/remote/domain"
	remoteout "ansitzplaner/internal/modules/remote/port/out"
	"ansitzplaner/internal/platform/logging"
)

type storeServer struct {
	backend remoteout.Backend
}

// NewStoreServer exposes backend through the RPC contract. Backend errors
// that already carry a status pass through unchanged.
func NewStoreServer(backend remoteout.Backend) rpc.RemoteStoreServer {
	return &storeServer{backend: backend}
}

// NewGRPCServer builds a server with the store registered and per-call
// logging.
func NewGRPCServer(backend remoteout.Backend, logger hclog.Logger) *grpc.Server {
	server := grpc.NewServer(grpc.UnaryInterceptor(logCalls(logging.OrNull(logger))))
	rpc.RegisterRemoteStoreServer(server, NewStoreServer(backend))
	return server
}

func (s *storeServer) Select(ctx context.Context, in *rpc.SelectRequest) (*rpc.SelectResponse, error) {
	rows, err := s.backend.Select(ctx, domain.Query{Table: in.Table, Eq: in.Eq, OrderBy: in.OrderBy, Descending: in.Descending})
	if err != nil {
		return nil, err
	}
	out := &rpc.SelectResponse{Records: make([]map[string]any, 0, len(rows))}
	for _, r := range rows {
		out.Records = append(out.Records, map[string]any(r))
	}
	return out, nil
}

func (s *storeServer) Insert(ctx context.Context, in *rpc.InsertRequest) (*rpc.Empty, error) {
	rows := make([]domain.Record, 0, len(in.Records))
	for _, r := range in.Records {
		rows = append(rows, domain.Record(r))
	}
	if err := s.backend.Insert(ctx, in.Table, rows); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (s *storeServer) Update(ctx context.Context, in *rpc.UpdateRequest) (*rpc.Empty, error) {
	if err := s.backend.Update(ctx, in.Table, in.ID, domain.Record(in.Patch)); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (s *storeServer) Delete(ctx context.Context, in *rpc.DeleteRequest) (*rpc.Empty, error) {
	if err := s.backend.Delete(ctx, in.Table, in.ID); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func (s *storeServer) Upsert(ctx context.Context, in *rpc.UpsertRequest) (*rpc.Empty, error) {
	if err := s.backend.Upsert(ctx, in.Table, domain.Record(in.Record)); err != nil {
		return nil, err
	}
	return &rpc.Empty{}, nil
}

func logCalls(logger hclog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("call failed", "method", info.FullMethod, "code", status.Code(err).String(), "error", err)
			return resp, err
		}
		logger.Debug("call", "method", info.FullMethod, "took", time.Since(started))
		return resp, nil
	}
}
