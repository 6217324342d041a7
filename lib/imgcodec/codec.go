package imgcodec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lni/dragonboat/v4/logger"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

var Logger = logger.GetLogger("codec")

const (
	// CanonicalFormat is the container format of every image produced by the server
	CanonicalFormat = "png"

	// MaxPixels is the largest number of pixels (width * height) a payload may declare.
	// The header is checked before any pixel memory is allocated.
	MaxPixels int64 = 1 << 26
)

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// DecodeAndVerify decodes an encoded image payload.
//
// The header is read first to check the format and the declared dimensions, after that
// the pixels are decoded from a fresh reader. Both steps succeed or the call fails with
// a *DecodeError, a panic inside a decoder is reported the same way.
// It returns the decoded image and the name of its container format (e.g. "png").
func DecodeAndVerify(data []byte) (image.Image, string, error) {
	return decodeAndVerify(data, MaxPixels)
}

// decodeAndVerify implements DecodeAndVerify with an explicit pixel limit
func decodeAndVerify(data []byte, maxPixels int64) (img image.Image, format string, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, format = nil, ""
			err = &DecodeError{Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	if len(data) == 0 {
		return nil, "", &DecodeError{Err: ErrEmptyPayload}
	}

	// verification pass, only the header is parsed
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", &DecodeError{Err: fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", &DecodeError{Err: fmt.Errorf("image of %dx%d pixels exceeds the limit of %d pixels", cfg.Width, cfg.Height, maxPixels)}
	}

	// the verification consumed the first reader, decode from a new one
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() != cfg.Width || bounds.Dy() != cfg.Height {
		return nil, "", &DecodeError{Err: fmt.Errorf("decoded size %dx%d does not match header %dx%d",
			bounds.Dx(), bounds.Dy(), cfg.Width, cfg.Height)}
	}

	return img, format, nil
}

// DetectFormat returns the container format of a payload without decoding the pixels
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return format, nil
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode encodes the image in the given container format.
// Formats without an encoder (e.g. webp) fall back to CanonicalFormat.
func Encode(img image.Image, format string) ([]byte, error) {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		Logger.Debugf("No encoder for format %q, using %s", format, CanonicalFormat)
		f = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f); err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", strings.ToLower(f.String()), err)
	}
	return buf.Bytes(), nil
}

// EncodeCanonical encodes the image in CanonicalFormat
func EncodeCanonical(img image.Image) ([]byte, error) {
	return Encode(img, CanonicalFormat)
}
