package imgcodec

import "errors"

// ErrEmptyPayload is returned (wrapped in a DecodeError) for payloads without any bytes
var ErrEmptyPayload = errors.New("empty image payload")

// DecodeError is returned when a payload can not be decoded or fails verification.
// It separates invalid input from failures while processing a valid image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err (or any error it wraps) is a DecodeError
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
