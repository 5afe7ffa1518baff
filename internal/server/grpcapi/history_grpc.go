// Package grpcapi declares the pagehist.v1.HistoryService gRPC contract.
//
// Messages are protobuf well-known types: requests and responses are
// google.protobuf.Struct values whose fields mirror the JSON API.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	HistoryService_GetServerInfo_FullMethodName  = "/pagehist.v1.HistoryService/GetServerInfo"
	HistoryService_ListProjects_FullMethodName   = "/pagehist.v1.HistoryService/ListProjects"
	HistoryService_GetPageHistory_FullMethodName = "/pagehist.v1.HistoryService/GetPageHistory"
	HistoryService_RecordBuild_FullMethodName    = "/pagehist.v1.HistoryService/RecordBuild"
)

// HistoryServiceClient is the client API for HistoryService.
//
// GetPageHistory takes {"project": string, "max": number}.
// RecordBuild takes {"project": string, "started_utc": string, "outcomes": [...]}.
type HistoryServiceClient interface {
	GetServerInfo(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListProjects(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetPageHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RecordBuild(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type historyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHistoryServiceClient(cc grpc.ClientConnInterface) HistoryServiceClient {
	return &historyServiceClient{cc}
}

func (c *historyServiceClient) GetServerInfo(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, HistoryService_GetServerInfo_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *historyServiceClient) ListProjects(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, HistoryService_ListProjects_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *historyServiceClient) GetPageHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, HistoryService_GetPageHistory_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *historyServiceClient) RecordBuild(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, HistoryService_RecordBuild_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// HistoryServiceServer is the server API for HistoryService.
type HistoryServiceServer interface {
	GetServerInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListProjects(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetPageHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordBuild(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedHistoryServiceServer can be embedded to keep implementations
// compiling when methods are added.
type UnimplementedHistoryServiceServer struct{}

func (UnimplementedHistoryServiceServer) GetServerInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetServerInfo not implemented")
}
func (UnimplementedHistoryServiceServer) ListProjects(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProjects not implemented")
}
func (UnimplementedHistoryServiceServer) GetPageHistory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPageHistory not implemented")
}
func (UnimplementedHistoryServiceServer) RecordBuild(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordBuild not implemented")
}

func RegisterHistoryServiceServer(s grpc.ServiceRegistrar, srv HistoryServiceServer) {
	s.RegisterService(&HistoryService_ServiceDesc, srv)
}

func _HistoryService_GetServerInfo_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HistoryServiceServer).GetServerInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HistoryService_GetServerInfo_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HistoryServiceServer).GetServerInfo(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _HistoryService_ListProjects_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HistoryServiceServer).ListProjects(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HistoryService_ListProjects_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HistoryServiceServer).ListProjects(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _HistoryService_GetPageHistory_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HistoryServiceServer).GetPageHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HistoryService_GetPageHistory_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HistoryServiceServer).GetPageHistory(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _HistoryService_RecordBuild_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HistoryServiceServer).RecordBuild(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: HistoryService_RecordBuild_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HistoryServiceServer).RecordBuild(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// HistoryService_ServiceDesc is the grpc.ServiceDesc for HistoryService.
var HistoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pagehist.v1.HistoryService",
	HandlerType: (*HistoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetServerInfo", Handler: _HistoryService_GetServerInfo_Handler},
		{MethodName: "ListProjects", Handler: _HistoryService_ListProjects_Handler},
		{MethodName: "GetPageHistory", Handler: _HistoryService_GetPageHistory_Handler},
		{MethodName: "RecordBuild", Handler: _HistoryService_RecordBuild_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pagehist/v1/history.proto",
}
