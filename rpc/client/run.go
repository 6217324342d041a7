package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/imgrpc/lib/imgcodec"
	"github.com/ValentinKolb/imgrpc/rpc/common"
	"github.com/ValentinKolb/imgrpc/rpc/serializer"
	"github.com/ValentinKolb/imgrpc/rpc/transport"
)

// ErrServerNotReady is returned by Run if the connection does not become ready in time
var ErrServerNotReady = errors.New("server not ready")

// Run executes one client run against the image service.
//
// The steps are strictly ordered:
//  1. load and classify the input image
//  2. connect and wait until the connection is ready (ReadyTimeoutSecond)
//  3. RotateImage
//  4. MeanFilter on the rotated image, if config.Mean is set
//  5. write the response to config.Output
//
// No call is issued if the server does not become ready, in that case the returned
// error wraps ErrServerNotReady. The transport is closed before Run returns.
// The returned image is the last response received from the server.
func Run(
	ctx context.Context,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*common.Image, error) {
	// Build the request from the local file
	info, err := imgcodec.LoadFile(config.Input)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Loaded %s (%s, %dx%d, color=%t)", config.Input, info.Format, info.Width, info.Height, info.Color)

	c, err := NewRPCImageClient(config, transport, serializer)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Transport.Endpoint(), err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			Logger.Warningf("Failed to close connection: %v", err)
		}
	}()

	// Wait for the server
	readyCtx, cancel := context.WithTimeout(ctx, time.Duration(config.ReadyTimeoutSecond)*time.Second)
	err = c.WaitReady(readyCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w at %s after %ds: %w", ErrServerNotReady, config.Transport.Endpoint(), config.ReadyTimeoutSecond, err)
	}
	Logger.Infof("Connected to %s (request id %s)", config.Transport.Endpoint(), c.RequestID())

	// Issue the calls, the mean filter works on the rotated image
	resp, err := c.RotateImage(ctx, common.NewRotateRequest(
		config.Rotation,
		common.NewImage(info.Data, info.Width, info.Height, info.Color),
	))
	if err != nil {
		return nil, err
	}

	if config.Mean {
		resp, err = c.MeanFilter(ctx, resp)
		if err != nil {
			return nil, err
		}
	}

	// Persist the result
	format, err := imgcodec.WriteFile(config.Output, resp.Data)
	if err != nil {
		return nil, err
	}
	Logger.Infof("Wrote %s (%s, %dx%d)", config.Output, format, resp.Width, resp.Height)

	return resp, nil
}
