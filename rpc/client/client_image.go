package client

import (
	"context"
	"errors"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/serializer"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/google/uuid"
)

// ErrEmptyResponse is returned when the server answers without an image
var ErrEmptyResponse = errors.New("server returned an empty response")

// IRPCImageClient is the client side of the image service
type IRPCImageClient interface {
	// WaitReady blocks until the connection to the server is ready or ctx is done
	WaitReady(ctx context.Context) error
	// RotateImage asks the server to rotate the image of the request
	RotateImage(ctx context.Context, req *common.RotateRequest) (*common.Image, error)
	// MeanFilter asks the server to apply the 3x3 mean filter to the image
	MeanFilter(ctx context.Context, img *common.Image) (*common.Image, error)
	// RequestID returns the id attached to every call of this client
	RequestID() string
	// Close closes the underlying transport
	Close() error
}

// rpcImageClient is the implementation of IRPCImageClient
type rpcImageClient struct {
	rpcClientAdapter
}

// NewRPCImageClient creates a new image client
// It takes a config, a transport and a serializer as parameters and connects the transport.
// The connection itself is established lazily, use WaitReady before the first call.
//
// Usage:
//
//	c, err := client.NewRPCImageClient(
//		config,
//		tcp.NewTCPClientTransport(),
//		serializer.NewProtoSerializer(),
//	)
func NewRPCImageClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IRPCImageClient, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &rpcImageClient{
		rpcClientAdapter: rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
			requestID:  uuid.NewString(),
		},
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IRPCImageClient)
// --------------------------------------------------------------------------

func (c *rpcImageClient) WaitReady(ctx context.Context) error {
	return c.transport.WaitReady(ctx)
}

func (c *rpcImageClient) RotateImage(ctx context.Context, req *common.RotateRequest) (*common.Image, error) {
	resp := &common.Image{}
	if err := invokeRPCRequest(ctx, common.MethodRotateImage, req, resp, &c.rpcClientAdapter); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

func (c *rpcImageClient) MeanFilter(ctx context.Context, img *common.Image) (*common.Image, error) {
	resp := &common.Image{}
	if err := invokeRPCRequest(ctx, common.MethodMeanFilter, img, resp, &c.rpcClientAdapter); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

func (c *rpcImageClient) RequestID() string {
	return c.requestID
}

func (c *rpcImageClient) Close() error {
	return c.transport.Close()
}
