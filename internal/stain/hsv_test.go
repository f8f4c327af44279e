package stain

import (
	"image"
	"image/color"
	"math"
	"testing"

	"scan-cleaner/pkg/colorutil"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v float64
	}{
		{"white", 255, 255, 255, 0, 0, 100},
		{"black", 0, 0, 0, 0, 0, 0},
		{"red", 255, 0, 0, 0, 100, 100},
		{"green", 0, 255, 0, 120, 100, 100},
		{"blue", 0, 0, 255, 240, 100, 100},
		{"gray", 128, 128, 128, 0, 0, 100.0 * 128 / 255},
	}

	for _, tt := range tests {
		h, s, v := colorutil.RGBToHSV(tt.r, tt.g, tt.b)
		if !closeTo(h, tt.h) || !closeTo(s, tt.s) || !closeTo(v, tt.v) {
			t.Errorf("%s: got (%.4f, %.4f, %.4f), want (%.4f, %.4f, %.4f)",
				tt.name, h, s, v, tt.h, tt.s, tt.v)
		}
	}
}

func TestHSVHueRange(t *testing.T) {
	// Every conversion must land in [0,360); magenta-ish colors exercise
	// the negative-hue wrap.
	h, _, _ := colorutil.RGBToHSV(255, 0, 128)
	if h < 0 || h >= 360 {
		t.Errorf("hue %.4f out of [0,360)", h)
	}
	if h < 300 {
		t.Errorf("magenta-ish hue should wrap above 300, got %.4f", h)
	}
}

func TestNewHSVBufferMarksTransparency(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{}) // fully transparent

	buf := NewHSVBuffer(img)

	if !buf.Opaque[0] {
		t.Error("opaque pixel not marked")
	}
	if buf.Opaque[1] {
		t.Error("transparent pixel must not be marked opaque")
	}
	if !closeTo(buf.Val[0], 100) || !closeTo(buf.Sat[0], 0) {
		t.Errorf("white pixel converted to S=%.2f V=%.2f", buf.Sat[0], buf.Val[0])
	}
	if buf.Val[1] != 0 || buf.Sat[1] != 0 {
		t.Error("transparent pixel must stay zero-valued")
	}
}

func TestNewHSVBufferEmptyImage(t *testing.T) {
	buf := NewHSVBuffer(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if buf.Width != 0 || buf.Height != 0 || len(buf.Val) != 0 {
		t.Error("zero-size raster must yield an empty buffer")
	}
}
