package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey  = "remote-store"
	serviceName   = "ansitzplaner.remote.v1.RemoteStore"
	JSONCodecName = "json"
	methodSelect  = "/" + serviceName + "/Select"
	methodInsert  = "/" + serviceName + "/Insert"
	methodUpdate  = "/" + serviceName + "/Update"
	methodDelete  = "/" + serviceName + "/Delete"
	methodUpsert  = "/" + serviceName + "/Upsert"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "ANSITZPLANER_DRIVER",
	MagicCookieValue: "remote-store",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return JSONCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type SelectRequest struct {
	Table      string            `json:"table"`
	Eq         map[string]string `json:"eq,omitempty"`
	OrderBy    string            `json:"order_by,omitempty"`
	Descending bool              `json:"descending,omitempty"`
}

type SelectResponse struct {
	Records []map[string]any `json:"records"`
}

type InsertRequest struct {
	Table   string           `json:"table"`
	Records []map[string]any `json:"records"`
}

type UpdateRequest struct {
	Table string         `json:"table"`
	ID    string         `json:"id"`
	Patch map[string]any `json:"patch"`
}

type DeleteRequest struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

type UpsertRequest struct {
	Table  string         `json:"table"`
	Record map[string]any `json:"record"`
}

type RemoteStoreServer interface {
	Select(ctx context.Context, in *SelectRequest) (*SelectResponse, error)
	Insert(ctx context.Context, in *InsertRequest) (*Empty, error)
	Update(ctx context.Context, in *UpdateRequest) (*Empty, error)
	Delete(ctx context.Context, in *DeleteRequest) (*Empty, error)
	Upsert(ctx context.Context, in *UpsertRequest) (*Empty, error)
}

type RemoteStoreClient interface {
	Select(ctx context.Context, in *SelectRequest) (*SelectResponse, error)
	Insert(ctx context.Context, in *InsertRequest) error
	Update(ctx context.Context, in *UpdateRequest) error
	Delete(ctx context.Context, in *DeleteRequest) error
	Upsert(ctx context.Context, in *UpsertRequest) error
}

type remoteStoreClient struct {
	conn grpc.ClientConnInterface
}

func NewRemoteStoreClient(conn grpc.ClientConnInterface) RemoteStoreClient {
	return &remoteStoreClient{conn: conn}
}

func (c *remoteStoreClient) Select(ctx context.Context, in *SelectRequest) (*SelectResponse, error) {
	out := &SelectResponse{}
	if err := c.conn.Invoke(ctx, methodSelect, in, out, grpc.CallContentSubtype(JSONCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *remoteStoreClient) Insert(ctx context.Context, in *InsertRequest) error {
	return c.conn.Invoke(ctx, methodInsert, in, &Empty{}, grpc.CallContentSubtype(JSONCodecName))
}

func (c *remoteStoreClient) Update(ctx context.Context, in *UpdateRequest) error {
	return c.conn.Invoke(ctx, methodUpdate, in, &Empty{}, grpc.CallContentSubtype(JSONCodecName))
}

func (c *remoteStoreClient) Delete(ctx context.Context, in *DeleteRequest) error {
	return c.conn.Invoke(ctx, methodDelete, in, &Empty{}, grpc.CallContentSubtype(JSONCodecName))
}

func (c *remoteStoreClient) Upsert(ctx context.Context, in *UpsertRequest) error {
	return c.conn.Invoke(ctx, methodUpsert, in, &Empty{}, grpc.CallContentSubtype(JSONCodecName))
}

func RegisterRemoteStoreServer(server grpc.ServiceRegistrar, impl RemoteStoreServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*RemoteStoreServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Select", Handler: unary(methodSelect, func(ctx context.Context, in *SelectRequest) (any, error) { return impl.Select(ctx, in) })},
			{MethodName: "Insert", Handler: unary(methodInsert, func(ctx context.Context, in *InsertRequest) (any, error) { return impl.Insert(ctx, in) })},
			{MethodName: "Update", Handler: unary(methodUpdate, func(ctx context.Context, in *UpdateRequest) (any, error) { return impl.Update(ctx, in) })},
			{MethodName: "Delete", Handler: unary(methodDelete, func(ctx context.Context, in *DeleteRequest) (any, error) { return impl.Delete(ctx, in) })},
			{MethodName: "Upsert", Handler: unary(methodUpsert, func(ctx context.Context, in *UpsertRequest) (any, error) { return impl.Upsert(ctx, in) })},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/remote-store-v1.proto",
	}, impl)
}

func unary[Req any](fullMethod string, call func(context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl RemoteStoreServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterRemoteStoreServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewRemoteStoreClient(conn), nil
}

func PluginMap(impl RemoteStoreServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
