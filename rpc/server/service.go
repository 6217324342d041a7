package server

import (
	"context"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/transport/base"
	"google.golang.org/grpc"
)

// NewImageServiceServer creates the gRPC handler of the image service.
// It converts the results of the adapter into responses or status errors,
// a failed call never returns a message.
func NewImageServiceServer(adapter IRPCServerAdapter) IImageServiceServer {
	return &imageServiceServer{adapter: adapter}
}

type imageServiceServer struct {
	adapter IRPCServerAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IImageServiceServer)
// --------------------------------------------------------------------------

func (s *imageServiceServer) RotateImage(ctx context.Context, req *common.RotateRequest) (*common.Image, error) {
	result := s.adapter.RotateImage(req)
	if !result.Ok() {
		Logger.Debugf("RotateImage (request %s) failed: %s", base.RequestID(ctx), result.Message)
	}
	return result.Unwrap()
}

func (s *imageServiceServer) MeanFilter(ctx context.Context, img *common.Image) (*common.Image, error) {
	result := s.adapter.MeanFilter(img)
	if !result.Ok() {
		Logger.Debugf("MeanFilter (request %s) failed: %s", base.RequestID(ctx), result.Message)
	}
	return result.Unwrap()
}

// --------------------------------------------------------------------------
// Service Descriptor
// --------------------------------------------------------------------------

// ImageServiceDesc describes the image service for grpc.Server.RegisterService.
// The messages are (de)serialized by the codec chosen by the client.
var ImageServiceDesc = grpc.ServiceDesc{
	ServiceName: common.ServiceName,
	HandlerType: (*IImageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RotateImage",
			Handler:    rotateImageHandler,
		},
		{
			MethodName: "MeanFilter",
			Handler:    meanFilterHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "image.proto",
}

func rotateImageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(common.RotateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IImageServiceServer).RotateImage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: common.MethodRotateImage,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IImageServiceServer).RotateImage(ctx, req.(*common.RotateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func meanFilterHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(common.Image)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IImageServiceServer).MeanFilter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: common.MethodMeanFilter,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IImageServiceServer).MeanFilter(ctx, req.(*common.Image))
	}
	return interceptor(ctx, in, info, handler)
}
