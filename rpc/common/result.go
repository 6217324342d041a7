package common

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ResultKind tags the outcome of a single service call
type ResultKind uint8

const (
	ResultOK               ResultKind = iota // the call produced an image
	ResultInvalidImage                       // the payload could not be decoded or verified
	ResultProcessingFailed                   // the transform or the re-encoding failed
)

// String returns the string representation of a ResultKind
func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultInvalidImage:
		return "invalid image"
	case ResultProcessingFailed:
		return "processing failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a service call. Either Image is set (Kind is
// ResultOK) or Kind and Message describe the failure. A failed result
// never carries a partial image.
type Result struct {
	Image   *Image
	Kind    ResultKind
	Message string
}

// NewResult creates a successful result
func NewResult(image *Image) Result {
	return Result{Image: image, Kind: ResultOK}
}

// NewErrorResult creates a failed result
func NewErrorResult(kind ResultKind, message string) Result {
	return Result{Kind: kind, Message: message}
}

// Ok reports whether the result holds an image
func (r Result) Ok() bool {
	return r.Kind == ResultOK
}

// Code maps the result kind to a gRPC status code.
// Both failure kinds use InvalidArgument, clients tell them apart by the message.
func (r Result) Code() codes.Code {
	switch r.Kind {
	case ResultOK:
		return codes.OK
	case ResultInvalidImage, ResultProcessingFailed:
		return codes.InvalidArgument
	default:
		return codes.Unknown
	}
}

// Err converts the result into a gRPC status error (nil on success)
func (r Result) Err() error {
	if r.Ok() {
		return nil
	}
	return status.Error(r.Code(), r.Message)
}

// Unwrap returns the image and the status error of the result
func (r Result) Unwrap() (*Image, error) {
	if !r.Ok() {
		return nil, r.Err()
	}
	return r.Image, nil
}
