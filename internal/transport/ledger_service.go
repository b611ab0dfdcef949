package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// LedgerServiceName is the fully qualified gRPC service name.
const LedgerServiceName = "tideshash.v1.LedgerService"

// LedgerServiceServer is the server API of the ledger gRPC service.
// Messages are well-known types; their JSON shape matches the REST API.
type LedgerServiceServer interface {
	Health(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetWindow(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitShare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitBlock(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// LedgerServiceDesc describes the ledger gRPC service.
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: LedgerServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Health",
			Handler:    unaryHandler("Health", LedgerServiceServer.Health),
		},
		{
			MethodName: "GetWindow",
			Handler:    unaryHandler("GetWindow", LedgerServiceServer.GetWindow),
		},
		{
			MethodName: "SubmitShare",
			Handler:    unaryHandler("SubmitShare", LedgerServiceServer.SubmitShare),
		},
		{
			MethodName: "SubmitBlock",
			Handler:    unaryHandler("SubmitBlock", LedgerServiceServer.SubmitBlock),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tideshash/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s.
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}](method string, call func(LedgerServiceServer, context.Context, PReq) (*structpb.Struct, error)) grpc.MethodHandler {
	fullMethod := "/" + LedgerServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerServiceClient is the client API of the ledger gRPC service.
type LedgerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerServiceClient builds a client over cc.
func NewLedgerServiceClient(cc grpc.ClientConnInterface) *LedgerServiceClient {
	return &LedgerServiceClient{cc: cc}
}

func (c *LedgerServiceClient) invoke(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+LedgerServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Health calls LedgerService.Health.
func (c *LedgerServiceClient) Health(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Health", &emptypb.Empty{}, opts...)
}

// GetWindow calls LedgerService.GetWindow.
func (c *LedgerServiceClient) GetWindow(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetWindow", in, opts...)
}

// SubmitShare calls LedgerService.SubmitShare.
func (c *LedgerServiceClient) SubmitShare(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SubmitShare", in, opts...)
}

// SubmitBlock calls LedgerService.SubmitBlock.
func (c *LedgerServiceClient) SubmitBlock(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SubmitBlock", in, opts...)
}
