package base

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serviceRegistration is a service registered before the server is started
type serviceRegistration struct {
	desc *grpc.ServiceDesc
	impl any
}

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector    IServerConnector
	services     []serviceRegistration
	interceptors []grpc.UnaryServerInterceptor

	mu       sync.Mutex // Protects server, health and stopped
	server   *grpc.Server
	health   *health.Server
	stopped  bool
	listener net.Listener
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new gRPC based server transport with the specified connector
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterService(desc *grpc.ServiceDesc, impl any) {
	t.services = append(t.services, serviceRegistration{desc: desc, impl: impl})
}

func (t *serverTransport) Use(interceptors ...grpc.UnaryServerInterceptor) {
	t.interceptors = append(t.interceptors, interceptors...)
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	// minimum one worker
	workers := max(config.Workers, 1)

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	// the limit runs first, calls waiting for a slot are not logged as running
	interceptors := append([]grpc.UnaryServerInterceptor{
		newLimitInterceptor(workers),
		loggingInterceptor,
	}, t.interceptors...)

	maxMessage := config.Transport.MaxMessageBytes()
	if maxMessage <= 0 {
		maxMessage = common.DefaultMaxMessageMB * 1024 * 1024
	}

	server := grpc.NewServer(
		grpc.NumStreamWorkers(uint32(workers)),
		grpc.MaxRecvMsgSize(maxMessage),
		grpc.MaxSendMsgSize(maxMessage),
		grpc.ChainUnaryInterceptor(interceptors...),
	)

	// Register the services and report them as serving
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	for _, s := range t.services {
		server.RegisterService(s.desc, s.impl)
		healthServer.SetServingStatus(s.desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		listener.Close()
		return nil
	}
	t.server = server
	t.health = healthServer
	t.listener = listener
	t.mu.Unlock()

	Logger.Infof("Starting %s server on %s with %d workers",
		t.connector.GetName(), listener.Addr(), workers)

	// Serve blocks until the server is stopped
	if err := server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("%s server failed: %w", t.connector.GetName(), err)
	}
	return nil
}

func (t *serverTransport) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	if t.server == nil {
		return
	}

	Logger.Infof("Stopping %s server on %s", t.connector.GetName(), t.listener.Addr())

	// health checks report NOT_SERVING while running calls are drained
	t.health.Shutdown()
	t.server.GracefulStop()
}
