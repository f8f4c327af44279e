package analyze

import (
	"image"
	"image/color"
	"testing"

	"scan-cleaner/internal/stain"
)

func TestSuggestPaperDominatedScan(t *testing.T) {
	// 10x10 near-white paper with a short dark ink stroke.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 240, G: 238, B: 235, A: 255})
		}
	}
	for x := 0; x < 5; x++ {
		img.SetRGBA(x, 5, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	}

	s := Suggest(stain.NewHSVBuffer(img))

	// The brightness threshold must land below the paper mass (~94%)
	// but well above the ink (~8%).
	if s.BrightnessThreshold < 40 || s.BrightnessThreshold > 94 {
		t.Errorf("BrightnessThreshold = %.1f, want within (40, 94)", s.BrightnessThreshold)
	}
	// Paper here is nearly gray, so the saturation threshold stays low.
	if s.SaturationThreshold < 5 || s.SaturationThreshold > 20 {
		t.Errorf("SaturationThreshold = %.1f, want within [5, 20]", s.SaturationThreshold)
	}
	if s.MeanValue <= 0 || s.MeanValue >= 100 {
		t.Errorf("MeanValue = %.1f out of range", s.MeanValue)
	}
}

func TestSuggestEmptyImageFallsBackToDefaults(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2)) // all transparent
	s := Suggest(stain.NewHSVBuffer(img))

	def := stain.DefaultParams()
	if s.BrightnessThreshold != def.BrightnessThreshold ||
		s.SaturationThreshold != def.SaturationThreshold {
		t.Errorf("expected default thresholds, got %+v", s)
	}
}
