// Package common provides core data structures and utilities shared across
// the image RPC system. It defines the wire schema, configuration structures
// and the logging setup used by the other packages.
//
// The package focuses on:
//   - Message schema of the ImageService (Image, RotateRequest, Rotation)
//   - Tagged service results and their mapping to gRPC status codes
//   - Configuration structures for client and server components
//   - Custom logging implementation based on the Dragonboat logger
//
// Key Components:
//
//   - Image / RotateRequest: The two messages exchanged between client and server,
//     with factory functions for creating them. Both implement Message so that
//     every serializer can encode them.
//
//   - Rotation: Closed enumeration of the four clockwise rotations. Unknown values
//     decoded from the wire behave like RotationNone.
//
//   - Result: Outcome of a single service call, either an Image or a failure kind
//     with a diagnostic message. Result.Err maps failures to gRPC status errors.
//
//   - ServerConfig / ClientConfig: Immutable configuration of the server process and
//     of a single client run, validated with struct tags.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's logger
//     registry and also receives the internal logs of grpc-go.
package common
