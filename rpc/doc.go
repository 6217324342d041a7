// Package rpc provides the remote procedure call layer of the image system.
// It carries images between the client and the server over gRPC.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the RPC system, including the
//     Image and RotateRequest messages, results, configuration structures and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets and an in-memory transport for tests).
//
//   - serializer: Message serialization with multiple formats (Proto, JSON, GOB),
//     registered as gRPC codecs and selected by the client per call.
//
//   - client: The typed image client and the driver of a client run.
//
//   - server: The image service, its gRPC descriptor and the server running it.
package rpc
