package serializer

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/imgrpc/rpc/common"
	"google.golang.org/protobuf/encoding/protowire"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"Proto": NewProtoSerializer,
	"JSON":  NewJSONSerializer,
	"GOB":   NewGOBSerializer,
}

// testImages creates a set of test images with different fields filled
func testImages() []*common.Image {
	return []*common.Image{
		// Image with just a payload
		{Data: []byte{0x89, 'P', 'N', 'G'}},

		// Grayscale image
		{Data: []byte("gray-image-bytes"), Width: 100, Height: 50},

		// Colored image with large dimensions
		{Color: true, Data: make([]byte, 16*1024), Width: 1 << 20, Height: 3},
	}
}

// testRotateRequests creates a set of rotate requests for every rotation
func testRotateRequests() []*common.RotateRequest {
	var requests []*common.RotateRequest
	for _, rotation := range []common.Rotation{
		common.RotationNone,
		common.RotationNinetyDeg,
		common.RotationOneEightyDeg,
		common.RotationTwoSeventyDeg,
	} {
		requests = append(requests, common.NewRotateRequest(rotation, &common.Image{
			Color:  true,
			Data:   []byte("payload"),
			Width:  10,
			Height: 20,
		}))
	}
	return requests
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, img := range testImages() {
				data, err := serializer.Serialize(img)
				if err != nil {
					t.Errorf("Failed to serialize image %d: %v", i, err)
					continue
				}

				result := &common.Image{}
				if err := serializer.Deserialize(data, result); err != nil {
					t.Errorf("Failed to deserialize image %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(img, result) {
					t.Errorf("Image %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v", i, img, result)
				}
			}

			for i, req := range testRotateRequests() {
				data, err := serializer.Serialize(req)
				if err != nil {
					t.Errorf("Failed to serialize request %d: %v", i, err)
					continue
				}

				result := &common.RotateRequest{}
				if err := serializer.Deserialize(data, result); err != nil {
					t.Errorf("Failed to deserialize request %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(req, result) {
					t.Errorf("Request %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v", i, req, result)
				}
			}
		})
	}
}

// TestSerializerNames tests that every serializer can be looked up by its name
func TestSerializerNames(t *testing.T) {
	for _, name := range Names() {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%s) failed: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("Expected serializer name %s, got %s", name, s.Name())
		}
	}

	if _, err := ByName("binary"); err == nil {
		t.Error("Expected error for unknown serializer")
	}
}

// TestProtoWireFormat tests that the proto serializer writes the field numbers of the schema
func TestProtoWireFormat(t *testing.T) {
	serializer := NewProtoSerializer()

	// build the expected encoding field by field
	var img []byte
	img = protowire.AppendTag(img, 1, protowire.VarintType)
	img = protowire.AppendVarint(img, 1)
	img = protowire.AppendTag(img, 2, protowire.BytesType)
	img = protowire.AppendBytes(img, []byte("abc"))
	img = protowire.AppendTag(img, 3, protowire.VarintType)
	img = protowire.AppendVarint(img, 100)
	img = protowire.AppendTag(img, 4, protowire.VarintType)
	img = protowire.AppendVarint(img, 50)

	var req []byte
	req = protowire.AppendTag(req, 1, protowire.VarintType)
	req = protowire.AppendVarint(req, 1)
	req = protowire.AppendTag(req, 2, protowire.BytesType)
	req = protowire.AppendBytes(req, img)

	got, err := serializer.Serialize(common.NewRotateRequest(
		common.RotationNinetyDeg,
		common.NewImage([]byte("abc"), 100, 50, true),
	))
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if !reflect.DeepEqual(got, req) {
		t.Errorf("Unexpected encoding:\nExpected: %x\nGot:      %x", req, got)
	}

	// default values are omitted
	empty, err := serializer.Serialize(&common.Image{})
	if err != nil {
		t.Fatalf("Failed to serialize empty image: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty encoding for empty image, got %x", empty)
	}
}

// TestProtoUnknownValues tests that unknown fields are skipped and unknown rotations are tolerated
func TestProtoUnknownValues(t *testing.T) {
	serializer := NewProtoSerializer()

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 42) // not a known rotation
	b = protowire.AppendTag(b, 15, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future field"))
	b = protowire.AppendTag(b, 16, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 7)

	var req common.RotateRequest
	if err := serializer.Deserialize(b, &req); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if req.Rotation.Degrees() != 0 {
		t.Errorf("Expected unknown rotation to mean 0 degrees, got %d", req.Rotation.Degrees())
	}
	if req.Image != nil {
		t.Errorf("Expected no image, got %+v", req.Image)
	}
}

// TestInvalidProtoData tests how the proto serializer handles corrupt or invalid data
func TestInvalidProtoData(t *testing.T) {
	serializer := NewProtoSerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: false,
		},
		{
			name:        "Truncated varint",
			data:        []byte{0x18, 0x80}, // width with a continuation bit but no next byte
			expectError: true,
		},
		{
			name:        "Invalid length for data",
			data:        []byte{0x12, 10, 'a', 'b'}, // claims 10 bytes but only 2 provided
			expectError: true,
		},
		{
			name:        "Invalid field number",
			data:        []byte{0x00},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Image
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}

// TestJSONRotationNames tests that rotations are encoded by name and unknown names are tolerated
func TestJSONRotationNames(t *testing.T) {
	serializer := NewJSONSerializer()

	data, err := serializer.Serialize(common.NewRotateRequest(common.RotationTwoSeventyDeg, nil))
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	if string(data) != `{"rotation":"TWO_SEVENTY_DEG"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var req common.RotateRequest
	if err := serializer.Deserialize([]byte(`{"rotation":"FORTY_FIVE_DEG"}`), &req); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if req.Rotation != common.RotationNone {
		t.Errorf("Expected RotationNone for unknown name, got %v", req.Rotation)
	}
}
