package imgcodec

import (
	"image"

	"github.com/disintegration/imaging"
)

// IsColored reports whether the image has color.
//
// Every pixel is converted to 8-bit RGB (alpha is ignored) and the values of each channel
// are summed up. If the mean of the three sums equals the sum of any single channel the
// image is considered grayscale.
func IsColored(img image.Image) bool {
	nrgba := imaging.Clone(img)

	var sums [3]uint64
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			sums[0] += uint64(row[i])
			sums[1] += uint64(row[i+1])
			sums[2] += uint64(row[i+2])
		}
	}

	mean := float64(sums[0]+sums[1]+sums[2]) / 3
	for _, sum := range sums {
		if mean == float64(sum) {
			return false
		}
	}
	return true
}
