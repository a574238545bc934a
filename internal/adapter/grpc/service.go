package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service and method names of the portfolio gRPC API
// Messages are google.protobuf.Struct documents, so no generated stubs are needed.
const (
	ServiceName      = "ventureflow.v1.PortfolioService"
	DeriveMethod     = "/" + ServiceName + "/Derive"
	LoadPresetMethod = "/" + ServiceName + "/LoadPreset"
)

// PortfolioServiceServer is the server API for the portfolio service
type PortfolioServiceServer interface {
	// Derive turns {"records": [...]} into {"timeline": {...}, "cashflow": {...}}
	Derive(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// LoadPreset turns {"passphrase": "..."} into {"records": [...]}
	LoadPreset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioServiceDesc, srv)
}

// PortfolioServiceDesc describes the portfolio service to the gRPC runtime
var PortfolioServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Derive", Handler: deriveHandler},
		{MethodName: "LoadPreset", Handler: loadPresetHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ventureflow/v1/portfolio.proto",
}

func deriveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).Derive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DeriveMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).Derive(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func loadPresetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PortfolioServiceServer).LoadPreset(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LoadPresetMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PortfolioServiceServer).LoadPreset(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
