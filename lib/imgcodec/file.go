package imgcodec

import (
	"fmt"
	"os"
)

// FileInfo is an image file read from disk
type FileInfo struct {
	// Data holds the file content in its original container format
	Data []byte
	// Format is the detected container format (e.g. "jpeg")
	Format string
	// Width and Height of the decoded image in pixels
	Width, Height int
	// Color is false if the image is grayscale (see IsColored)
	Color bool
}

// LoadFile reads an image file.
// The file content is kept as is, it is decoded only to read the size and to classify
// the colors.
func LoadFile(path string) (*FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := DecodeAndVerify(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	info := &FileInfo{
		Data:   data,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Color:  IsColored(img),
	}

	Logger.Debugf("Loaded %s (%s, %dx%d, color=%t, %d bytes)",
		path, info.Format, info.Width, info.Height, info.Color, len(data))

	return info, nil
}

// WriteFile writes an encoded image to path.
// The payload is verified before anything is written, the file keeps the container
// format of the payload. It returns the detected format.
func WriteFile(path string, data []byte) (string, error) {
	_, format, err := DecodeAndVerify(data)
	if err != nil {
		return "", fmt.Errorf("received invalid image: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	Logger.Debugf("Wrote %s image with %d bytes to %s", format, len(data), path)

	return format, nil
}
