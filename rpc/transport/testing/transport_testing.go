package testing

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/serializer"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/ValentinKolb/imgrpc/rpc/transport/base"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// TransportPair is a server and a client transport with matching configurations
type TransportPair struct {
	Server       transport.IRPCServerTransport
	ServerConfig common.ServerConfig
	Client       transport.IRPCClientTransport
	ClientConfig common.ClientConfig
}

// TransportFactory creates a new, unstarted TransportPair
type TransportFactory func(t *testing.T) TransportPair

// --------------------------------------------------------------------------
// Config Helper
// --------------------------------------------------------------------------

// NewServerConfig creates a server configuration suitable for tests
func NewServerConfig(tc common.TransportConfig) common.ServerConfig {
	if tc.MaxMessageMB == 0 {
		tc.MaxMessageMB = common.DefaultMaxMessageMB
	}
	return common.ServerConfig{
		Transport: tc,
		Workers:   4,
		LogLevel:  "info",
	}
}

// NewClientConfig creates a client configuration suitable for tests
func NewClientConfig(tc common.TransportConfig) common.ClientConfig {
	if tc.MaxMessageMB == 0 {
		tc.MaxMessageMB = common.DefaultMaxMessageMB
	}
	return common.ClientConfig{
		Transport:          tc,
		ReadyTimeoutSecond: common.DefaultReadyTimeoutSecond,
		CallTimeoutSecond:  common.DefaultCallTimeoutSecond,
		LogLevel:           "info",
	}
}

// MemoryFactory is a TransportFactory for the in-memory transport
func MemoryFactory(t *testing.T) TransportPair {
	server, client := NewMemoryTransports(DefaultBufferSize)
	tc := common.TransportConfig{Host: "bufnet", Port: 1}
	return TransportPair{
		Server:       server,
		ServerConfig: NewServerConfig(tc),
		Client:       client,
		ClientConfig: NewClientConfig(tc),
	}
}

// --------------------------------------------------------------------------
// Server Helper
// --------------------------------------------------------------------------

// StartServer runs Listen in the background and stops the server when the test ends.
// The returned channel receives the result of Listen.
func StartServer(t *testing.T, server transport.IRPCServerTransport, config common.ServerConfig) <-chan error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(config)
	}()
	t.Cleanup(server.Shutdown)

	return errCh
}

// ConnectClient connects the client, waits until it is ready and closes it when the test ends
func ConnectClient(t *testing.T, client transport.IRPCClientTransport, config common.ClientConfig) {
	t.Helper()

	if err := client.Connect(config); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady failed: %v", err)
	}
}

// --------------------------------------------------------------------------
// Echo Service
// --------------------------------------------------------------------------

const echoMethod = "/TransportTest/Echo"

type echoer interface {
	Echo(ctx context.Context, img *common.Image) (*common.Image, error)
}

// echoService returns every image unchanged and tracks the number of parallel calls
type echoService struct {
	delay     time.Duration
	active    atomic.Int32
	maxActive atomic.Int32
}

func (s *echoService) Echo(_ context.Context, img *common.Image) (*common.Image, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)

	for {
		m := s.maxActive.Load()
		if n <= m || s.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	time.Sleep(s.delay)

	if img.Width == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing width")
	}
	return img, nil
}

func echoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(common.Image)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(echoer).Echo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: echoMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(echoer).Echo(ctx, req.(*common.Image))
	}
	return interceptor(ctx, in, info, handler)
}

var echoServiceDesc = grpc.ServiceDesc{
	ServiceName: "TransportTest",
	HandlerType: (*echoer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Echo", Handler: echoHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "transport_testing.go",
}

// --------------------------------------------------------------------------
// Test Suite
// --------------------------------------------------------------------------

// RunTransportTests runs the conformance tests for a transport implementation
func RunTransportTests(t *testing.T, name string, factory TransportFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Health", func(t *testing.T) {
			testHealth(t, factory(t))
		})

		t.Run("Echo", func(t *testing.T) {
			testEcho(t, factory(t))
		})

		t.Run("WorkerLimit", func(t *testing.T) {
			testWorkerLimit(t, factory(t))
		})

		t.Run("NotReady", func(t *testing.T) {
			testNotReady(t, factory(t))
		})

		t.Run("Shutdown", func(t *testing.T) {
			testShutdown(t, factory(t))
		})

		t.Run("NotConnected", func(t *testing.T) {
			testNotConnected(t, factory(t))
		})
	})
}

func testHealth(t *testing.T, p TransportPair) {
	StartServer(t, p.Server, p.ServerConfig)
	ConnectClient(t, p.Client, p.ClientConfig)

	resp := &healthpb.HealthCheckResponse{}
	err := p.Client.Invoke(context.Background(), healthpb.Health_Check_FullMethodName,
		&healthpb.HealthCheckRequest{}, resp)
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Expected SERVING, got %v", resp.GetStatus())
	}
}

func testEcho(t *testing.T, p TransportPair) {
	p.Server.RegisterService(&echoServiceDesc, &echoService{})
	StartServer(t, p.Server, p.ServerConfig)
	ConnectClient(t, p.Client, p.ClientConfig)

	in := common.NewImage([]byte("image payload"), 7, 3, true)

	for _, name := range serializer.Names() {
		out := &common.Image{}
		err := p.Client.Invoke(context.Background(), echoMethod, in, out, grpc.CallContentSubtype(name))
		if err != nil {
			t.Errorf("Echo with %s failed: %v", name, err)
			continue
		}
		if !reflect.DeepEqual(in, out) {
			t.Errorf("Echo with %s returned %+v, expected %+v", name, out, in)
		}
	}

	// status errors of the handler reach the client unchanged
	err := p.Client.Invoke(context.Background(), echoMethod, &common.Image{Data: []byte("x")}, &common.Image{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Expected InvalidArgument, got %v", err)
	}
}

func testWorkerLimit(t *testing.T, p TransportPair) {
	svc := &echoService{delay: 50 * time.Millisecond}
	p.Server.RegisterService(&echoServiceDesc, svc)
	p.ServerConfig.Workers = 2
	StartServer(t, p.Server, p.ServerConfig)
	ConnectClient(t, p.Client, p.ClientConfig)

	var wg sync.WaitGroup
	var failed atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := &common.Image{}
			if err := p.Client.Invoke(context.Background(), echoMethod, common.NewImage(nil, 1, 1, false), out); err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	if failed.Load() != 0 {
		t.Errorf("%d calls failed", failed.Load())
	}
	if m := svc.maxActive.Load(); m > 2 {
		t.Errorf("Expected at most 2 parallel calls, got %d", m)
	}
}

func testNotReady(t *testing.T, p TransportPair) {
	// the server is never started
	if err := p.Client.Connect(p.ClientConfig); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer p.Client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := p.Client.WaitReady(ctx)
	if err == nil {
		t.Fatal("Expected WaitReady to fail without a server")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func testShutdown(t *testing.T, p TransportPair) {
	errCh := StartServer(t, p.Server, p.ServerConfig)
	ConnectClient(t, p.Client, p.ClientConfig)

	p.Server.Shutdown()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Listen returned an error after shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := p.Client.Invoke(ctx, healthpb.Health_Check_FullMethodName,
		&healthpb.HealthCheckRequest{}, &healthpb.HealthCheckResponse{})
	if err == nil {
		t.Error("Expected call to fail after shutdown")
	}
}

func testNotConnected(t *testing.T, p TransportPair) {
	err := p.Client.Invoke(context.Background(), echoMethod, &common.Image{}, &common.Image{})
	if !errors.Is(err, base.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected before Connect, got %v", err)
	}

	if err := p.Client.Connect(p.ClientConfig); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := p.Client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := p.Client.WaitReady(context.Background()); !errors.Is(err, base.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected after Close, got %v", err)
	}
}
