package base

import (
	"context"
	"time"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// newLimitInterceptor limits the number of concurrently handled calls.
// The buffered channel acts as a counting semaphore, calls wait for a free
// slot until their context is done.
func newLimitInterceptor(workers int) grpc.UnaryServerInterceptor {
	workerSemaphore := make(chan struct{}, workers)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		select {
		case workerSemaphore <- struct{}{}:
		case <-ctx.Done():
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		defer func() { <-workerSemaphore }()

		return handler(ctx, req)
	}
}

// loggingInterceptor logs every call with its duration and status code on debug level
func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	Logger.Debugf("Processed %s (request %s) with status %s, took %s",
		info.FullMethod, RequestID(ctx), status.Code(err), time.Since(start))
	return resp, err
}

// RequestID returns the request id sent by the client or "-" if there is none
func RequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "-"
	}
	if ids := md.Get(common.RequestIDKey); len(ids) > 0 {
		return ids[0]
	}
	return "-"
}
