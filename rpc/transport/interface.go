package transport

import (
	"context"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"google.golang.org/grpc"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// IRPCServerTransport is the interface for the RPC server transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterService registers a service implementation with the transport
	// All services must be registered before Listen is called
	RegisterService(desc *grpc.ServiceDesc, impl any)
	// Use adds unary interceptors, they run after the interceptors of the transport itself
	Use(interceptors ...grpc.UnaryServerInterceptor)
	// Listen starts the transport layer and serves incoming requests
	// It blocks until Shutdown is called or the listener fails
	Listen(config common.ServerConfig) error
	// Shutdown stops accepting new calls and waits for running calls to finish
	Shutdown()
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	// No network traffic happens before WaitReady or the first Invoke
	Connect(config common.ClientConfig) error
	// WaitReady blocks until the connection is ready or ctx is done
	WaitReady(ctx context.Context) error
	// Invoke performs a unary call and writes the response into resp
	Invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error
	// Close closes the transport connection
	Close() error
}
