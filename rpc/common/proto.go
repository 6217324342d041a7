package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Service Definition
// --------------------------------------------------------------------------

const (
	// ServiceName is the fully qualified name of the image service
	ServiceName = "ImageService"

	// MethodRotateImage is the full method name of the RotateImage RPC
	MethodRotateImage = "/" + ServiceName + "/RotateImage"
	// MethodMeanFilter is the full method name of the MeanFilter RPC
	MethodMeanFilter = "/" + ServiceName + "/MeanFilter"

	// RequestIDKey is the metadata key carrying the id of a client run
	RequestIDKey = "x-request-id"
)

// --------------------------------------------------------------------------
// Message Structures
// --------------------------------------------------------------------------

// Message is implemented by every message that can be sent over the wire.
// Serializers use the concrete type to decide how the fields are encoded.
type Message interface {
	// MessageName returns the schema name of the message
	MessageName() string
}

// Image is an encoded image together with its metadata.
//
// Protobuf field numbers: color=1, data=2, width=3, height=4
type Image struct {
	Color  bool   `json:"color,omitempty"`  // true if the channels are not all equal
	Data   []byte `json:"data,omitempty"`   // encoded image in its container format
	Width  uint32 `json:"width,omitempty"`  // width in pixels
	Height uint32 `json:"height,omitempty"` // height in pixels
}

// MessageName implements Message
func (m *Image) MessageName() string {
	return "Image"
}

// GetData returns the payload or nil for a nil image
func (m *Image) GetData() []byte {
	if m == nil {
		return nil
	}
	return m.Data
}

// GetColor returns the color flag or false for a nil image
func (m *Image) GetColor() bool {
	if m == nil {
		return false
	}
	return m.Color
}

// RotateRequest asks the server to rotate an image clockwise.
//
// Protobuf field numbers: rotation=1, image=2
type RotateRequest struct {
	Rotation Rotation `json:"rotation"`
	Image    *Image   `json:"image,omitempty"`
}

// MessageName implements Message
func (m *RotateRequest) MessageName() string {
	return "RotateRequest"
}

// GetImage returns the image of the request or nil
func (m *RotateRequest) GetImage() *Image {
	if m == nil {
		return nil
	}
	return m.Image
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewImage creates a new Image message
func NewImage(data []byte, width, height int, color bool) *Image {
	return &Image{
		Color:  color,
		Data:   data,
		Width:  uint32(width),
		Height: uint32(height),
	}
}

// NewRotateRequest creates a new RotateImage request
func NewRotateRequest(rotation Rotation, image *Image) *RotateRequest {
	return &RotateRequest{
		Rotation: rotation,
		Image:    image,
	}
}

// --------------------------------------------------------------------------
// Rotation Definition
// --------------------------------------------------------------------------

// Rotation is a discrete clockwise rotation angle. The enum is closed:
// values outside the known range are treated like RotationNone.
type Rotation int32

const (
	RotationNone          Rotation = iota // 0 degrees
	RotationNinetyDeg                     // 90 degrees clockwise
	RotationOneEightyDeg                  // 180 degrees
	RotationTwoSeventyDeg                 // 270 degrees clockwise
)

// rotationNames maps the known rotations to their wire names
var rotationNames = map[Rotation]string{
	RotationNone:          "NONE",
	RotationNinetyDeg:     "NINETY_DEG",
	RotationOneEightyDeg:  "ONE_EIGHTY_DEG",
	RotationTwoSeventyDeg: "TWO_SEVENTY_DEG",
}

// RotationNames lists the accepted rotation names in enum order
func RotationNames() []string {
	return []string{"NONE", "NINETY_DEG", "ONE_EIGHTY_DEG", "TWO_SEVENTY_DEG"}
}

// Degrees returns the clockwise angle of the rotation.
// Unknown values yield 0.
func (r Rotation) Degrees() int {
	switch r {
	case RotationNinetyDeg:
		return 90
	case RotationOneEightyDeg:
		return 180
	case RotationTwoSeventyDeg:
		return 270
	default:
		return 0
	}
}

// String returns the wire name of the rotation
func (r Rotation) String() string {
	if name, ok := rotationNames[r]; ok {
		return name
	}
	return rotationNames[RotationNone]
}

// ParseRotation converts a rotation name to a Rotation.
// In contrast to decoding a message this is strict and used for user input.
func ParseRotation(name string) (Rotation, error) {
	for r, n := range rotationNames {
		if n == name {
			return r, nil
		}
	}
	return RotationNone, fmt.Errorf("invalid rotation %q (expected one of %v)", name, RotationNames())
}

// MarshalJSON implements the json.Marshaller interface for Rotation.
// This allows Rotation to be serialized as a string in JSON.
func (r Rotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Rotation.
// Both names and numbers are accepted, anything unknown becomes RotationNone.
func (r *Rotation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int32
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return err
		}
		*r = Rotation(n)
		return nil
	}

	parsed, err := ParseRotation(s)
	if err != nil {
		parsed = RotationNone
	}
	*r = parsed
	return nil
}
