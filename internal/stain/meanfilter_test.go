package stain

import (
	"image"
	"image/color"
	"testing"
)

// fills a w x h raster with opaque white.
func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func TestMeanSatInterior(t *testing.T) {
	// 3x3 white image with a fully saturated red center: the center
	// window sums one pixel at S=100 over 9 cells.
	img := whiteImage(3, 3)
	img.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})
	buf := NewHSVBuffer(img)

	if got, want := buf.MeanSat(1, 1, 3), 100.0/9.0; !closeTo(got, want) {
		t.Errorf("MeanSat(1,1,3) = %v, want %v", got, want)
	}
}

func TestMeanSatZeroPaddedCorner(t *testing.T) {
	// At the corner only 4 of the 9 window cells are in bounds, but the
	// denominator stays 9: out-of-bounds samples average in as zeros.
	img := whiteImage(3, 3)
	img.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})
	buf := NewHSVBuffer(img)

	if got, want := buf.MeanSat(0, 0, 3), 100.0/9.0; !closeTo(got, want) {
		t.Errorf("MeanSat(0,0,3) = %v, want %v", got, want)
	}
}

func TestMeanSatTransparentLowersAverage(t *testing.T) {
	// A transparent pixel contributes nothing to the sum but still
	// counts in the denominator.
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255}) // S=100
	img.SetRGBA(1, 0, color.RGBA{})               // transparent
	img.SetRGBA(2, 0, color.RGBA{R: 255, A: 255}) // S=100
	buf := NewHSVBuffer(img)

	if got, want := buf.MeanSat(1, 0, 3), 200.0/9.0; !closeTo(got, want) {
		t.Errorf("MeanSat over transparent neighbor = %v, want %v", got, want)
	}
}

func TestMeanSatAllTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	buf := NewHSVBuffer(img)

	if got := buf.MeanSat(1, 1, 3); got != 0 {
		t.Errorf("MeanSat on all-transparent image = %v, want 0", got)
	}
}
