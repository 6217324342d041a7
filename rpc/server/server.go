package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/labstack/echo/v4"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// opsShutdownTimeout bounds the shutdown of the operations HTTP server
const opsShutdownTimeout = 5 * time.Second

// RPCServer serves the image service over a transport
type RPCServer struct {
	config    common.ServerConfig
	transport transport.IRPCServerTransport
	adapter   IRPCServerAdapter
	metrics   *serverMetrics
	ops       *echo.Echo
	serving   atomic.Bool
}

// NewRPCServer creates a new RPC server
// It takes a config and a transport as parameters. The server accepts every
// registered encoding, the client chooses one per call.
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//	)
//
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", config.String())

	s := &RPCServer{
		config:    config,
		transport: transport,
		adapter:   NewImageServerAdapter(),
		metrics:   newServerMetrics(),
	}

	if config.MetricsEndpoint != "" {
		s.ops = newOpsServer(s.metrics, s.serving.Load)
	}

	return s
}

// Serve starts the RPC server and blocks until ctx is done or the transport fails.
// When ctx is done, running calls are finished before Serve returns.
func (s *RPCServer) Serve(ctx context.Context) error {
	// Configure the transport layer
	s.transport.RegisterService(&ImageServiceDesc, NewImageServiceServer(s.adapter))
	s.transport.Use(s.metrics.interceptor)

	// Start the operations endpoint
	if s.ops != nil {
		go func() {
			Logger.Infof("Starting operations endpoint on %s", s.config.MetricsEndpoint)
			if err := s.ops.Start(s.config.MetricsEndpoint); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Logger.Errorf("Operations endpoint failed: %v", err)
			}
		}()
		defer s.stopOps()
	}

	s.serving.Store(true)
	defer s.serving.Store(false)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.transport.Listen(s.config)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("transport failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		Logger.Infof("Shutdown signal received, waiting for running calls")
		s.serving.Store(false)
		s.transport.Shutdown()
		if err := <-errCh; err != nil {
			return fmt.Errorf("transport failed: %w", err)
		}
		Logger.Infof("Server stopped")
		return nil
	}
}

// stopOps shuts the operations endpoint down
func (s *RPCServer) stopOps() {
	ctx, cancel := context.WithTimeout(context.Background(), opsShutdownTimeout)
	defer cancel()
	if err := s.ops.Shutdown(ctx); err != nil {
		Logger.Warningf("Failed to stop operations endpoint: %v", err)
	}
}
