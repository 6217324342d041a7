package testing

import (
	"context"
	"net"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/ValentinKolb/imgrpc/rpc/transport/base"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// DefaultBufferSize is the buffer size of in-memory connections
const DefaultBufferSize = 1024 * 1024 // 1 MB

// memoryServerConnector implements base.IServerConnector on top of a bufconn listener
type memoryServerConnector struct {
	lis *bufconn.Listener
}

func (c *memoryServerConnector) GetName() string {
	return "memory"
}

func (c *memoryServerConnector) Listen(_ common.ServerConfig) (net.Listener, error) {
	return c.lis, nil
}

// memoryClientConnector implements base.IClientConnector on top of a bufconn listener
type memoryClientConnector struct {
	lis *bufconn.Listener
}

func (c *memoryClientConnector) GetName() string {
	return "memory"
}

func (c *memoryClientConnector) Target(_ common.ClientConfig) string {
	return "passthrough:///bufnet"
}

func (c *memoryClientConnector) DialOptions(_ common.ClientConfig) []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return c.lis.DialContext(ctx)
		}),
	}
}

// NewMemoryTransports creates a connected pair of in-memory transports.
// Every connection of the client is accepted by the server, no socket is opened.
func NewMemoryTransports(bufferSize int) (transport.IRPCServerTransport, transport.IRPCClientTransport) {
	lis := bufconn.Listen(bufferSize)
	return base.NewBaseServerTransport(&memoryServerConnector{lis: lis}),
		base.NewBaseClientTransport(&memoryClientConnector{lis: lis})
}
