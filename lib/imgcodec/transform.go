package imgcodec

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// MeanFilterRadius is the radius of the mean filter offered by the service (3x3 neighbourhood)
const MeanFilterRadius = 1

// Rotate rotates the image clockwise by the given degrees.
// Only 0, 90, 180 and 270 are supported. The canvas is expanded, for 90 and 270
// degrees width and height are swapped. A rotation of 0 returns img unchanged.
func Rotate(img image.Image, degrees int) (image.Image, error) {
	// imaging rotates counter-clockwise
	switch degrees {
	case 0:
		return img, nil
	case 90:
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("unsupported rotation of %d degrees", degrees)
	}
}

// BoxBlur replaces every pixel by the mean of its neighbourhood of the given radius.
// Pixels outside the image are sampled from the nearest edge pixel, so the result
// has the size of the input for any image (including 1x1).
func BoxBlur(img image.Image, radius float64) (image.Image, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("invalid blur radius %v", radius)
	}
	return blur.Box(img, radius), nil
}

// MeanFilter applies the mean filter of the service (BoxBlur with MeanFilterRadius)
func MeanFilter(img image.Image) (image.Image, error) {
	return BoxBlur(img, MeanFilterRadius)
}
