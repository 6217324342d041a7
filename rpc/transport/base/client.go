package base

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
)

var Logger = logger.GetLogger("transport/rpc")

// ErrNotConnected is returned when the transport is used before Connect or after Close
var ErrNotConnected = errors.New("transport is not connected")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Target returns the gRPC target for the configured endpoint (e.g. "unix:/tmp/img.sock")
	Target(config common.ClientConfig) string

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// DialOptions returns protocol-specific options for the connection
	DialOptions(config common.ClientConfig) []grpc.DialOption
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig

	mu   sync.RWMutex // Protects conn
	conn *grpc.ClientConn
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	// Close an existing connection
	if err := t.Close(); err != nil {
		return err
	}

	maxMessage := config.Transport.MaxMessageBytes()
	if maxMessage <= 0 {
		maxMessage = common.DefaultMaxMessageMB * 1024 * 1024
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMessage),
			grpc.MaxCallSendMsgSize(maxMessage),
		),
	}
	opts = append(opts, t.connector.DialOptions(config)...)

	target := t.connector.Target(config)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return fmt.Errorf("failed to create %s client for %s: %w", t.connector.GetName(), target, err)
	}

	t.mu.Lock()
	t.config = config
	t.conn = conn
	t.mu.Unlock()

	Logger.Debugf("Created %s client for %s", t.connector.GetName(), target)

	return nil
}

func (t *clientTransport) WaitReady(ctx context.Context) error {
	conn, err := t.connection()
	if err != nil {
		return err
	}

	// leave idle mode and start connecting
	conn.Connect()

	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			Logger.Infof("Connected to %s using %s transport", conn.Target(), t.connector.GetName())
			return nil
		case connectivity.Shutdown:
			return ErrNotConnected
		}

		Logger.Debugf("Waiting for %s, connection is %s", conn.Target(), state)

		// WaitForStateChange returns false once ctx is done
		if !conn.WaitForStateChange(ctx, state) {
			return fmt.Errorf("connection to %s not ready (last state %s): %w", conn.Target(), state, ctx.Err())
		}
	}
}

func (t *clientTransport) Invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	conn, err := t.connection()
	if err != nil {
		return err
	}
	return conn.Invoke(ctx, method, req, resp, opts...)
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close %s connection: %w", t.connector.GetName(), err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// connection returns the current connection or ErrNotConnected
func (t *clientTransport) connection() (*grpc.ClientConn, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.conn == nil {
		return nil, ErrNotConnected
	}
	return t.conn, nil
}
