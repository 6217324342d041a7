package client

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/serializer"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	Logger = logger.GetLogger("client")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	requestID  string
}

// invokeRPCRequest is a helper function used by the RPC client to send requests
// It bounds the call with the configured call timeout, attaches the request id of the
// client run and selects the encoding of the serializer.
// Errors keep their gRPC status, so status.Code works on the returned error.
func invokeRPCRequest(ctx context.Context, method string, req, resp common.Message, a *rpcClientAdapter) error {
	if a.config.CallTimeoutSecond > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.config.CallTimeoutSecond)*time.Second)
		defer cancel()
	}
	ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDKey, a.requestID)

	start := time.Now()
	err := a.transport.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(a.serializer.Name()))
	Logger.Debugf("[%s] %s via %s took %v (code=%s)", a.requestID, method, a.serializer.Name(), time.Since(start), status.Code(err))
	if err != nil {
		return fmt.Errorf("%s failed: %w", path.Base(method), err)
	}
	return nil
}
