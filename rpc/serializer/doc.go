// Package serializer provides message serialization for the image RPC system.
// It defines a common interface with multiple implementations and adapts each
// of them to a gRPC codec, so a client may choose the encoding per call.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - protoSerializerImpl: Writes the protobuf wire format of the Image and RotateRequest
//     messages with protowire. The encoding is byte compatible with generated protobuf
//     code for the same schema and is the default encoding of the system.
//
//   - jsonSerializerImpl: Implementation using JSON encoding. Rotations are written by
//     name, useful for debugging or interoperability with other systems.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding, only usable
//     between Go peers.
//
//   - grpcCodec: Wraps a serializer as encoding.Codec. All serializers are registered
//     during package initialization under their Name(), which the client passes as
//     content-subtype. The proto codec replaces the grpc-go default and forwards
//     generated protobuf messages (health checks) to the protobuf runtime.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s, err := serializer.ByName("proto")
//	data, err := s.Serialize(common.NewImage(png, 100, 50, true))
//	// ... send data ...
//	img := &common.Image{}
//	err = s.Deserialize(receivedData, img)
package serializer
