package stain

import (
	"image"
	"image/color"
	"testing"
)

func TestBlackMask(t *testing.T) {
	img := whiteImage(3, 1)
	img.SetRGBA(0, 0, color.RGBA{R: 20, G: 20, B: 20, A: 255}) // dark gray: ink
	img.SetRGBA(1, 0, color.RGBA{B: 60, A: 255})               // dark but saturated blue
	buf := NewHSVBuffer(img)

	m := BlackMask(buf, DefaultParams())

	if !m.At(0, 0) {
		t.Error("dark desaturated pixel must be marked as ink")
	}
	if m.At(1, 0) {
		t.Error("saturated pixel must not be marked as ink")
	}
	if m.At(2, 0) {
		t.Error("white pixel must not be marked as ink")
	}
}

func TestBlackMaskSkipsTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Transparent pixel whose RGB would otherwise read as black.
	img.SetRGBA(0, 0, color.RGBA{})
	buf := NewHSVBuffer(img)

	if BlackMask(buf, DefaultParams()).Count() != 0 {
		t.Error("transparent pixels must never be marked as ink")
	}
}

func TestNearBlackCircularNeighborhood(t *testing.T) {
	black := NewMask(7, 7)
	black.Set(3, 3)

	tests := []struct {
		name string
		x, y int
		size int
		want bool
	}{
		{"axis-aligned at exactly r", 0, 3, 7, true},
		{"diagonal corner outside circle", 0, 0, 7, false},
		{"inside smaller radius", 1, 3, 5, true},
		{"axis-aligned beyond smaller radius", 0, 3, 5, false},
		{"self", 3, 3, 3, true},
	}
	for _, tt := range tests {
		if got := NearBlack(black, tt.x, tt.y, tt.size); got != tt.want {
			t.Errorf("%s: NearBlack(%d,%d,%d) = %v, want %v",
				tt.name, tt.x, tt.y, tt.size, got, tt.want)
		}
	}
}

func TestNearBlackClipsAtEdges(t *testing.T) {
	black := NewMask(3, 3)
	// Candidate in the corner with a window far larger than the mask.
	if NearBlack(black, 0, 0, 51) {
		t.Error("empty mask must never report a hit")
	}
	black.Set(2, 2)
	if !NearBlack(black, 0, 0, 51) {
		t.Error("in-bounds ink within radius must be found from the corner")
	}
}
