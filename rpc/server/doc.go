// Package server implements the RPC server of the image system.
// It provides the adapter holding the service logic, the gRPC service descriptor
// and the server that runs the service on a transport.
//
// The package focuses on:
//   - Pure request to response transforms (rotation and mean filter)
//   - A strict separation of invalid input and processing failures
//   - Metrics and health information for operations
//
// Key Components:
//
//   - IRPCServerAdapter: Interface of the service logic. NewImageServerAdapter decodes
//     and verifies the payload, transforms the pixels and re-encodes the result as PNG.
//     Every call yields a common.Result, panics are recovered into a failed result.
//
//   - ImageServiceDesc / NewImageServiceServer: The hand written gRPC descriptor of
//     the ImageService (RotateImage, MeanFilter) and its handler, which maps failed
//     results to InvalidArgument status errors with the messages
//     "Invalid image data: ..." and "Failed to process image: ...".
//
//   - NewRPCServer: Creates a server for a transport. Serve registers the service and
//     the metrics interceptor, starts the optional operations endpoint (/metrics,
//     /healthz) and drains running calls when its context is done.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Transport: common.TransportConfig{Host: "0.0.0.0", Port: 50051, MaxMessageMB: 64},
//	  Workers:   8,
//	  LogLevel:  "info",
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport())
//	if err := s.Serve(ctx); err != nil {
//	  log.Fatal(err)
//	}
package server
