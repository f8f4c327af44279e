package image

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestToRGBAAnchorsAtOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 23))
	src.SetNRGBA(10, 20, color.NRGBA{R: 200, A: 255})

	rgba := ToRGBA(src)

	if rgba.Rect.Min != (image.Point{}) {
		t.Errorf("raster not anchored at origin: %v", rgba.Rect)
	}
	if rgba.Rect.Dx() != 4 || rgba.Rect.Dy() != 3 {
		t.Errorf("raster is %dx%d, want 4x3", rgba.Rect.Dx(), rgba.Rect.Dy())
	}
	if rgba.RGBAAt(0, 0).R != 200 {
		t.Error("pixel content lost in conversion")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(2, 1, color.RGBA{}) // transparent pixel must survive

	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	layer, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if layer.Width() != 3 || layer.Height() != 2 {
		t.Errorf("loaded %dx%d, want 3x2", layer.Width(), layer.Height())
	}
	if layer.Raster.RGBAAt(0, 0).R != 255 {
		t.Error("red pixel lost in round trip")
	}
	if layer.Raster.RGBAAt(2, 1).A != 0 {
		t.Error("transparent pixel lost in round trip")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
