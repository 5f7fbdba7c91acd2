package tesseract

import (
	"image"
	"image/color"
)

// preprocess converts the page to grayscale and boosts contrast around the
// mean luminance. Factor 1.0 is a no-op; the OCR pipeline was tuned at 2.0.
func preprocess(src image.Image, factor float64) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)

	var sum, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			gray.SetGray(x, y, g)
			sum += float64(g.Y)
			n++
		}
	}
	if factor == 1.0 || n == 0 {
		return gray
	}

	mean := sum / n
	for i, v := range gray.Pix {
		gray.Pix[i] = clampByte(mean + (float64(v)-mean)*factor)
	}
	return gray
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
