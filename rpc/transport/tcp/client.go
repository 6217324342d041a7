package tcp

import (
	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/ValentinKolb/imgrpc/rpc/transport/base"
	"google.golang.org/grpc"
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Target(config common.ClientConfig) string {
	// the address is dialed as given, without name resolution by grpc
	return "passthrough:///" + config.Transport.Endpoint()
}

func (c *clientConnector) DialOptions(config common.ClientConfig) []grpc.DialOption {
	return nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPClientTransport creates a new TCP client transport
func NewTCPClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
