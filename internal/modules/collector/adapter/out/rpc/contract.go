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
	PluginMapKey         = "deskpulse"
	serviceName          = "deskpulse.collector.v1.CollectorPlugin"
	jsonCodecName        = "json"
	methodGetMetadata    = "/" + serviceName + "/GetMetadata"
	methodCollectSamples = "/" + serviceName + "/CollectSamples"
	methodGetStatus      = "/" + serviceName + "/GetStatus"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "DESKPULSE_COLLECTOR",
	MagicCookieValue: "deskpulse",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// Sample timestamps travel as RFC 3339 strings so the wire shape stays
// primitive on both sides of the codec.
type Sample struct {
	Timestamp         string   `json:"timestamp"`
	FocusScore        float64  `json:"focus_score"`
	PostureScore      float64  `json:"posture_score"`
	PhoneUsageSeconds float64  `json:"phone_usage_seconds"`
	NoiseLevel        float64  `json:"noise_level"`
	Recommendations   []string `json:"recommendations"`
	Cycle             int32    `json:"cycle"`
	AgentStatus       string   `json:"agent_status"`
}

type CollectSamplesRequest struct {
	Since string `json:"since"`
	Limit int32  `json:"limit"`
}

type CollectSamplesResponse struct {
	Samples []Sample `json:"samples"`
}

type StatusResponse struct {
	State        string `json:"state"`
	Detail       string `json:"detail"`
	LastSampleAt string `json:"last_sample_at"`
}

type CollectorPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	CollectSamples(ctx context.Context, in *CollectSamplesRequest) (*CollectSamplesResponse, error)
	GetStatus(ctx context.Context, in *Empty) (*StatusResponse, error)
}

type CollectorPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	CollectSamples(ctx context.Context, in *CollectSamplesRequest) (*CollectSamplesResponse, error)
	GetStatus(ctx context.Context) (*StatusResponse, error)
}

type collectorPluginClient struct {
	conn *grpc.ClientConn
}

func NewCollectorPluginClient(conn *grpc.ClientConn) CollectorPluginClient {
	return &collectorPluginClient{conn: conn}
}

func (c *collectorPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collectorPluginClient) CollectSamples(ctx context.Context, in *CollectSamplesRequest) (*CollectSamplesResponse, error) {
	out := &CollectSamplesResponse{}
	if err := c.conn.Invoke(ctx, methodCollectSamples, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collectorPluginClient) GetStatus(ctx context.Context) (*StatusResponse, error) {
	out := &StatusResponse{}
	if err := c.conn.Invoke(ctx, methodGetStatus, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterCollectorPluginServer(server grpc.ServiceRegistrar, impl CollectorPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CollectorPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "CollectSamples",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &CollectSamplesRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.CollectSamples(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCollectSamples}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*CollectSamplesRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.CollectSamples(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "GetStatus",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetStatus(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetStatus}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetStatus(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/collector-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CollectorPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCollectorPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCollectorPluginClient(conn), nil
}

func PluginMap(impl CollectorPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
