// Package client implements the client side of the image service.
// It provides a typed client for the ImageService and the driver that performs a
// complete client run from an input file to an output file.
//
// The package focuses on:
//   - Transparent RPC access over any transport and encoding
//   - A strictly ordered, sequential call sequence
//   - Bounded waits, nothing is retried
//
// Key Components:
//
//   - NewRPCImageClient: Factory function that creates a client implementing
//     IRPCImageClient. Every call is bounded by CallTimeoutSecond and carries the
//     request id of the client in the x-request-id metadata key.
//
//   - Run: Loads the input, waits for the server (ReadyTimeoutSecond), issues
//     RotateImage and optionally MeanFilter on the rotated image, and writes the
//     result. If the server does not become ready the error wraps ErrServerNotReady
//     and no call is issued. The transport is always closed.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Transport:          common.TransportConfig{Host: "localhost", Port: 50051, MaxMessageMB: 64},
//	  Input:              "in.jpg",
//	  Output:             "out.png",
//	  Rotation:           common.RotationNinetyDeg,
//	  Mean:               true,
//	  ReadyTimeoutSecond: 10,
//	  CallTimeoutSecond:  30,
//	}
//
//	img, err := client.Run(ctx, config, tcp.NewTCPClientTransport(), serializer.NewProtoSerializer())
//	if err != nil {
//	  log.Fatal(err)
//	}
//	fmt.Printf("Width=%d, Height=%d\n", img.Width, img.Height)
//
// Thread Safety:
//
//	A client can be used from multiple goroutines, Run itself never issues
//	concurrent calls.
package client
