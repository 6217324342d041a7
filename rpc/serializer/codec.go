package serializer

import (
	"fmt"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"

	// the default proto codec must be registered before it is replaced in init
	_ "google.golang.org/grpc/encoding/proto"
)

// NewGRPCCodec wraps a serializer so that it can be used as a gRPC codec.
//
// The codec is registered under the serializer's name, the client selects it
// with grpc.CallContentSubtype. The proto codec replaces the default codec of
// grpc-go, generated protobuf messages (e.g. of the health service) are
// therefore still marshalled with the protobuf runtime.
func NewGRPCCodec(s IRPCSerializer) encoding.Codec {
	return &grpcCodec{serializer: s}
}

// RegisterGRPCCodec registers the codec of the serializer with grpc-go.
// It must be called during initialization, before any server or client is created.
func RegisterGRPCCodec(s IRPCSerializer) {
	encoding.RegisterCodec(NewGRPCCodec(s))
}

// grpcCodec implements encoding.Codec on top of an IRPCSerializer
type grpcCodec struct {
	serializer IRPCSerializer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see encoding.Codec)
// --------------------------------------------------------------------------

func (c *grpcCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case common.Message:
		return c.serializer.Serialize(m)
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("%s codec: cannot marshal %T", c.Name(), v)
	}
}

func (c *grpcCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case common.Message:
		return c.serializer.Deserialize(data, m)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("%s codec: cannot unmarshal into %T", c.Name(), v)
	}
}

func (c *grpcCodec) Name() string {
	return c.serializer.Name()
}

// --------------------------------------------------------------------------
// Serializer Lookup
// --------------------------------------------------------------------------

// Names lists the names of all available serializers
func Names() []string {
	return []string{"proto", "json", "gob"}
}

// ByName creates the serializer with the given name
func ByName(name string) (IRPCSerializer, error) {
	switch name {
	case "proto":
		return NewProtoSerializer(), nil
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s (expected one of %v)", name, Names())
	}
}

// init registers all serializers as gRPC codecs, a server accepts every
// encoding and answers in the encoding the client has chosen
func init() {
	for _, name := range Names() {
		s, _ := ByName(name)
		RegisterGRPCCodec(s)
	}
}
