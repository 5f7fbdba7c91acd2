package tesseract

import (
	"image"
	"image/color"
	"testing"
)

func TestPreprocessSpreadsContrastAroundMean(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 100})
	src.SetGray(1, 0, color.Gray{Y: 200})

	got := preprocess(src, 2.0)

	// mean is 150; factor 2 pushes 100 -> 50 and 200 -> 250
	if got.GrayAt(0, 0).Y != 50 {
		t.Errorf("dark pixel = %d, want 50", got.GrayAt(0, 0).Y)
	}
	if got.GrayAt(1, 0).Y != 250 {
		t.Errorf("bright pixel = %d, want 250", got.GrayAt(1, 0).Y)
	}
}

func TestPreprocessClampsToByteRange(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 0})
	src.SetGray(1, 0, color.Gray{Y: 255})

	got := preprocess(src, 3.0)
	if got.GrayAt(0, 0).Y != 0 {
		t.Errorf("dark pixel = %d, want clamp at 0", got.GrayAt(0, 0).Y)
	}
	if got.GrayAt(1, 0).Y != 255 {
		t.Errorf("bright pixel = %d, want clamp at 255", got.GrayAt(1, 0).Y)
	}
}

func TestPreprocessFactorOneIsGrayscaleOnly(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	got := preprocess(src, 1.0)
	if got.GrayAt(0, 0).Y != 255 {
		t.Errorf("white pixel = %d, want 255", got.GrayAt(0, 0).Y)
	}
}
