package serializer

import (
	"fmt"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"google.golang.org/protobuf/encoding/protowire"
)

// NewProtoSerializer creates a new serializer that writes the protobuf wire format.
// The encoding is compatible with any protobuf implementation of the schema:
//
//	message Image         { bool color = 1; bytes data = 2; uint32 width = 3; uint32 height = 4; }
//	message RotateRequest { Rotation rotation = 1; Image image = 2; }
func NewProtoSerializer() IRPCSerializer {
	return &protoSerializerImpl{}
}

// protoSerializerImpl implements IRPCSerializer using the protobuf wire format
type protoSerializerImpl struct {
}

// Field numbers of the schema
const (
	imageFieldColor  protowire.Number = 1
	imageFieldData   protowire.Number = 2
	imageFieldWidth  protowire.Number = 3
	imageFieldHeight protowire.Number = 4

	rotateFieldRotation protowire.Number = 1
	rotateFieldImage    protowire.Number = 2
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (p protoSerializerImpl) Name() string {
	return "proto"
}

func (p protoSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	switch m := msg.(type) {
	case *common.Image:
		return appendImage(make([]byte, 0, imageSize(m)), m), nil
	case *common.RotateRequest:
		return appendRotateRequest(nil, m), nil
	default:
		return nil, fmt.Errorf("proto serializer: unsupported message %T", msg)
	}
}

func (p protoSerializerImpl) Deserialize(b []byte, msg common.Message) error {
	switch m := msg.(type) {
	case *common.Image:
		*m = common.Image{}
		return consumeImage(b, m)
	case *common.RotateRequest:
		*m = common.RotateRequest{}
		return consumeRotateRequest(b, m)
	default:
		return fmt.Errorf("proto serializer: unsupported message %T", msg)
	}
}

// --------------------------------------------------------------------------
// Encoding (proto3 semantics: fields with default values are omitted)
// --------------------------------------------------------------------------

// imageSize calculates the encoded size of an image
func imageSize(m *common.Image) int {
	size := 0
	if m.Color {
		size += protowire.SizeTag(imageFieldColor) + 1
	}
	if len(m.Data) > 0 {
		size += protowire.SizeTag(imageFieldData) + protowire.SizeBytes(len(m.Data))
	}
	if m.Width != 0 {
		size += protowire.SizeTag(imageFieldWidth) + protowire.SizeVarint(uint64(m.Width))
	}
	if m.Height != 0 {
		size += protowire.SizeTag(imageFieldHeight) + protowire.SizeVarint(uint64(m.Height))
	}
	return size
}

func appendImage(b []byte, m *common.Image) []byte {
	if m.Color {
		b = protowire.AppendTag(b, imageFieldColor, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(m.Color))
	}
	if len(m.Data) > 0 {
		b = protowire.AppendTag(b, imageFieldData, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Data)
	}
	if m.Width != 0 {
		b = protowire.AppendTag(b, imageFieldWidth, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Width))
	}
	if m.Height != 0 {
		b = protowire.AppendTag(b, imageFieldHeight, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Height))
	}
	return b
}

func appendRotateRequest(b []byte, m *common.RotateRequest) []byte {
	if m.Rotation != common.RotationNone {
		b = protowire.AppendTag(b, rotateFieldRotation, protowire.VarintType)
		// enums are int32 on the wire, negative values are sign extended
		b = protowire.AppendVarint(b, uint64(int64(m.Rotation)))
	}
	if m.Image != nil {
		b = protowire.AppendTag(b, rotateFieldImage, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(imageSize(m.Image)))
		b = appendImage(b, m.Image)
	}
	return b
}

// --------------------------------------------------------------------------
// Decoding (unknown fields are skipped, the last value of a field wins)
// --------------------------------------------------------------------------

func consumeImage(b []byte, m *common.Image) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("image: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == imageFieldColor && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("image.color: %w", protowire.ParseError(n))
			}
			m.Color = protowire.DecodeBool(v)
			b = b[n:]
		case num == imageFieldData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("image.data: %w", protowire.ParseError(n))
			}
			// copy, the input buffer may be reused by the transport
			m.Data = append([]byte(nil), v...)
			b = b[n:]
		case num == imageFieldWidth && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("image.width: %w", protowire.ParseError(n))
			}
			m.Width = uint32(v)
			b = b[n:]
		case num == imageFieldHeight && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("image.height: %w", protowire.ParseError(n))
			}
			m.Height = uint32(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("image: field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

func consumeRotateRequest(b []byte, m *common.RotateRequest) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("rotate request: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == rotateFieldRotation && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("rotate request.rotation: %w", protowire.ParseError(n))
			}
			// unknown enum values are kept, Rotation.Degrees maps them to 0
			m.Rotation = common.Rotation(int32(v))
			b = b[n:]
		case num == rotateFieldImage && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("rotate request.image: %w", protowire.ParseError(n))
			}
			// repeated occurrences of a message field are merged
			if m.Image == nil {
				m.Image = &common.Image{}
			}
			if err := consumeImage(v, m.Image); err != nil {
				return fmt.Errorf("rotate request: %w", err)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("rotate request: field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
