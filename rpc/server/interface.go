package server

import (
	"context"

	"github.com/ValentinKolb/imgrpc/rpc/common"
)

// IRPCServerAdapter is the interface for the image service logic
// It is responsible for turning a request into a Result
type IRPCServerAdapter interface {
	// RotateImage decodes the image of the request, rotates it clockwise by
	// the requested angle and re-encodes it
	RotateImage(req *common.RotateRequest) common.Result
	// MeanFilter decodes the image, applies the mean filter and re-encodes it
	MeanFilter(img *common.Image) common.Result
}

// IImageServiceServer is the handler type of ImageServiceDesc
// Errors returned by the methods are gRPC status errors
type IImageServiceServer interface {
	RotateImage(ctx context.Context, req *common.RotateRequest) (*common.Image, error)
	MeanFilter(ctx context.Context, img *common.Image) (*common.Image, error)
}
