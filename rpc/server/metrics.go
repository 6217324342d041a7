package server

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// serverMetrics collects the metrics of one server instance
type serverMetrics struct {
	set      *metrics.Set
	calls    *xsync.MapOf[string, *metrics.Counter] // key: method + status code
	inFlight atomic.Int64
}

// newServerMetrics creates an empty metrics set for a server
func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		set:   metrics.NewSet(),
		calls: xsync.NewMapOf[string, *metrics.Counter](),
	}
	m.set.NewGauge("imgrpc_calls_in_flight", func() float64 {
		return float64(m.inFlight.Load())
	})
	return m
}

// interceptor records count, duration and payload size of every call
func (m *serverMetrics) interceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	method := path.Base(info.FullMethod)
	start := time.Now()

	m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	resp, err := handler(ctx, req)

	m.callCounter(method, status.Code(err).String()).Inc()
	m.set.GetOrCreateHistogram(fmt.Sprintf(`imgrpc_call_duration_seconds{method=%q}`, method)).UpdateDuration(start)
	m.set.GetOrCreateCounter(fmt.Sprintf(`imgrpc_image_bytes_total{method=%q,direction="in"}`, method)).Add(payloadSize(req))
	if err == nil {
		m.set.GetOrCreateCounter(fmt.Sprintf(`imgrpc_image_bytes_total{method=%q,direction="out"}`, method)).Add(payloadSize(resp))
	}

	return resp, err
}

// callCounter returns the cached counter for a method and status code
func (m *serverMetrics) callCounter(method, code string) *metrics.Counter {
	counter, _ := m.calls.LoadOrCompute(method+"/"+code, func() *metrics.Counter {
		return m.set.GetOrCreateCounter(fmt.Sprintf(`imgrpc_calls_total{method=%q,code=%q}`, method, code))
	})
	return counter
}

// WritePrometheus writes the server and process metrics in Prometheus text format
func (m *serverMetrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// payloadSize returns the size of the encoded image carried by a message
func payloadSize(msg any) int {
	switch m := msg.(type) {
	case *common.Image:
		return len(m.GetData())
	case *common.RotateRequest:
		return len(m.GetImage().GetData())
	default:
		return 0
	}
}
