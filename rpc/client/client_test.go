package client

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/imgrpc/lib/imgcodec"
	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/serializer"
	"github.com/ValentinKolb/imgrpc/rpc/server"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/ValentinKolb/imgrpc/rpc/transport/tcp"
	transporttesting "github.com/ValentinKolb/imgrpc/rpc/transport/testing"
	"github.com/disintegration/imaging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// --------------------------------------------------------------------------
// Fake Transport
// --------------------------------------------------------------------------

// fakeTransport records all calls and answers them with the server adapter
type fakeTransport struct {
	mu sync.Mutex

	readyErr  error
	invokeErr error

	connected  bool
	closed     bool
	methods    []string
	requestIDs []string
	deadlines  []bool
}

func (f *fakeTransport) Connect(common.ClientConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *fakeTransport) WaitReady(ctx context.Context) error {
	if f.readyErr != nil {
		<-ctx.Done()
		return errors.Join(f.readyErr, ctx.Err())
	}
	return nil
}

func (f *fakeTransport) Invoke(ctx context.Context, method string, req, resp any, _ ...grpc.CallOption) error {
	f.mu.Lock()
	f.methods = append(f.methods, method)
	md, _ := metadata.FromOutgoingContext(ctx)
	f.requestIDs = append(f.requestIDs, md.Get(common.RequestIDKey)...)
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	f.mu.Unlock()

	if f.invokeErr != nil {
		return f.invokeErr
	}

	adapter := server.NewImageServerAdapter()
	var result common.Result
	switch method {
	case common.MethodRotateImage:
		result = adapter.RotateImage(req.(*common.RotateRequest))
	case common.MethodMeanFilter:
		result = adapter.MeanFilter(req.(*common.Image))
	default:
		return status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}

	img, err := result.Unwrap()
	if err != nil {
		return err
	}
	*resp.(*common.Image) = *img
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// writeInput writes a noisy test image and returns a client configuration reading it
func writeInput(t *testing.T, width, height int, format string) common.ClientConfig {
	t.Helper()
	dir := t.TempDir()

	r := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256)), A: 255})
		}
	}
	data, err := imgcodec.Encode(img, format)
	if err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}

	input := filepath.Join(dir, "input."+format)
	if err := os.WriteFile(input, data, 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	config := transporttesting.NewClientConfig(common.TransportConfig{Host: "bufnet", Port: 1})
	config.Input = input
	config.Output = filepath.Join(dir, "output")
	config.ReadyTimeoutSecond = 1
	return config
}

// loadOutput decodes the output file of a run
func loadOutput(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	img, format, err := imgcodec.DecodeAndVerify(data)
	if err != nil {
		t.Fatalf("output is not an image: %v", err)
	}
	if format != imgcodec.CanonicalFormat {
		t.Errorf("Expected output format %s, got %s", imgcodec.CanonicalFormat, format)
	}
	return img
}

// neighborDifference is the mean absolute difference of horizontally adjacent gray values
func neighborDifference(img image.Image) float64 {
	gray := imaging.Grayscale(img)
	var sum, n float64
	for y := 0; y < gray.Rect.Dy(); y++ {
		for x := 1; x < gray.Rect.Dx(); x++ {
			a := float64(gray.Pix[y*gray.Stride+(x-1)*4])
			b := float64(gray.Pix[y*gray.Stride+x*4])
			if a > b {
				sum += a - b
			} else {
				sum += b - a
			}
			n++
		}
	}
	return sum / n
}

// startServer runs an RPC server on the in-memory transport and returns the matching client transport
func startServer(t *testing.T) transport.IRPCClientTransport {
	t.Helper()

	serverTransport, clientTransport := transporttesting.NewMemoryTransports(transporttesting.DefaultBufferSize)
	s := server.NewRPCServer(
		transporttesting.NewServerConfig(common.TransportConfig{Host: "bufnet", Port: 1}),
		serverTransport,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned an error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return after cancel")
		}
	})

	return clientTransport
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

// TestRunNotReady tests that no call is issued if the server never becomes ready
func TestRunNotReady(t *testing.T) {
	config := writeInput(t, 8, 8, "png")
	config.Mean = true
	fake := &fakeTransport{readyErr: errors.New("connecting")}

	start := time.Now()
	_, err := Run(context.Background(), config, fake, serializer.NewProtoSerializer())
	if !errors.Is(err, ErrServerNotReady) {
		t.Fatalf("Expected ErrServerNotReady, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected the cause to be kept, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Errorf("Run returned after %v, before the ready timeout", elapsed)
	}
	if len(fake.methods) != 0 {
		t.Errorf("Expected zero calls, got %v", fake.methods)
	}
	if !fake.closed {
		t.Error("Expected the transport to be closed")
	}
	if _, err := os.Stat(config.Output); !os.IsNotExist(err) {
		t.Error("Expected no output file")
	}
}

// TestRunNotReadyTCP tests the ready timeout against an address nobody listens on
func TestRunNotReadyTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	config := writeInput(t, 8, 8, "png")
	config.Transport.Host = "127.0.0.1"
	config.Transport.Port = port

	_, err = Run(context.Background(), config, tcp.NewTCPClientTransport(), serializer.NewProtoSerializer())
	if !errors.Is(err, ErrServerNotReady) {
		t.Fatalf("Expected ErrServerNotReady, got %v", err)
	}
}

// TestRunInvalidInput tests that an unreadable input fails before connecting
func TestRunInvalidInput(t *testing.T) {
	config := writeInput(t, 8, 8, "png")
	if err := os.WriteFile(config.Input, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	fake := &fakeTransport{}

	_, err := Run(context.Background(), config, fake, serializer.NewProtoSerializer())
	if !imgcodec.IsDecodeError(err) {
		t.Errorf("Expected a decode error, got %v", err)
	}
	if fake.connected {
		t.Error("Expected no connection for an invalid input")
	}
}

// TestRunCallOrder tests the order and the metadata of the calls
func TestRunCallOrder(t *testing.T) {
	testCases := map[string]struct {
		mean    bool
		methods []string
	}{
		"Rotate only":      {false, []string{common.MethodRotateImage}},
		"Rotate then mean": {true, []string{common.MethodRotateImage, common.MethodMeanFilter}},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			config := writeInput(t, 12, 6, "jpeg")
			config.Rotation = common.RotationNinetyDeg
			config.Mean = tc.mean
			fake := &fakeTransport{}

			resp, err := Run(context.Background(), config, fake, serializer.NewJSONSerializer())
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if resp.Width != 6 || resp.Height != 12 {
				t.Errorf("Expected 6x12, got %dx%d", resp.Width, resp.Height)
			}
			if len(fake.methods) != len(tc.methods) {
				t.Fatalf("Expected calls %v, got %v", tc.methods, fake.methods)
			}
			for i := range tc.methods {
				if fake.methods[i] != tc.methods[i] {
					t.Errorf("Call %d: expected %s, got %s", i, tc.methods[i], fake.methods[i])
				}
			}

			// all calls of a run share one request id
			if len(fake.requestIDs) != len(tc.methods) {
				t.Fatalf("Expected a request id per call, got %v", fake.requestIDs)
			}
			for _, id := range fake.requestIDs {
				if id == "" || id != fake.requestIDs[0] {
					t.Errorf("Unexpected request ids %v", fake.requestIDs)
				}
			}

			if !fake.closed {
				t.Error("Expected the transport to be closed")
			}
			img := loadOutput(t, config.Output)
			if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 12 {
				t.Errorf("Output is %v", img.Bounds())
			}
		})
	}
}

// TestRunCallTimeout tests that calls get a deadline unless the timeout is disabled
func TestRunCallTimeout(t *testing.T) {
	for _, timeout := range []int{0, 5} {
		config := writeInput(t, 4, 4, "png")
		config.CallTimeoutSecond = timeout
		fake := &fakeTransport{}

		if _, err := Run(context.Background(), config, fake, serializer.NewProtoSerializer()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(fake.deadlines) != 1 || fake.deadlines[0] != (timeout > 0) {
			t.Errorf("timeout=%d: unexpected deadlines %v", timeout, fake.deadlines)
		}
	}
}

// TestRunCallError tests that a failing call stops the run and keeps the status
func TestRunCallError(t *testing.T) {
	config := writeInput(t, 8, 8, "png")
	config.Mean = true
	fake := &fakeTransport{invokeErr: status.Error(codes.InvalidArgument, "Invalid image data: boom")}

	_, err := Run(context.Background(), config, fake, serializer.NewGOBSerializer())
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Expected InvalidArgument, got %v", err)
	}
	if len(fake.methods) != 1 {
		t.Errorf("Expected the run to stop after the first call, got %v", fake.methods)
	}
	if !fake.closed {
		t.Error("Expected the transport to be closed")
	}
	if _, err := os.Stat(config.Output); !os.IsNotExist(err) {
		t.Error("Expected no output file")
	}
}

// TestRunAgainstServer tests complete runs against a real server
func TestRunAgainstServer(t *testing.T) {
	t.Run("Rotate", func(t *testing.T) {
		config := writeInput(t, 100, 50, "png")
		config.Rotation = common.RotationNinetyDeg

		resp, err := Run(context.Background(), config, startServer(t), serializer.NewProtoSerializer())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if resp.Width != 50 || resp.Height != 100 || !resp.Color {
			t.Errorf("Unexpected response %dx%d color=%t", resp.Width, resp.Height, resp.Color)
		}
		img := loadOutput(t, config.Output)
		if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 100 {
			t.Errorf("Output is %v", img.Bounds())
		}
	})

	t.Run("Mean", func(t *testing.T) {
		config := writeInput(t, 64, 64, "png")
		config.Rotation = common.RotationNone
		config.Mean = true

		if _, err := Run(context.Background(), config, startServer(t), serializer.NewJSONSerializer()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		input, err := imgcodec.LoadFile(config.Input)
		if err != nil {
			t.Fatal(err)
		}
		original, _, _ := imgcodec.DecodeAndVerify(input.Data)
		filtered := loadOutput(t, config.Output)

		if filtered.Bounds() != original.Bounds() {
			t.Fatalf("Expected %v, got %v", original.Bounds(), filtered.Bounds())
		}
		before, after := neighborDifference(original), neighborDifference(filtered)
		if after >= before {
			t.Errorf("Expected the filter to smooth the image, difference %f -> %f", before, after)
		}
	})
}
