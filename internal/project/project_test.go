package project

import (
	"path/filepath"
	"testing"

	"scan-cleaner/internal/stain"
)

func TestMaskRLERoundTrip(t *testing.T) {
	m := stain.NewMask(5, 3)
	m.Set(0, 0)
	m.Set(1, 0)
	m.Set(4, 2)

	rle := EncodeMask(m)
	if rle == nil {
		t.Fatal("non-empty mask must encode")
	}

	decoded, err := rle.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.Equal(m) {
		t.Error("decoded mask differs from original")
	}
}

func TestMaskRLELeadingSetPixel(t *testing.T) {
	// Runs alternate starting with false; a mask whose first pixel is
	// set must begin with a zero-length clear run.
	m := stain.NewMask(2, 1)
	m.Set(0, 0)

	rle := EncodeMask(m)
	decoded, err := rle.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.At(0, 0) || decoded.At(1, 0) {
		t.Error("leading set pixel lost in round trip")
	}
}

func TestEncodeMaskEmpty(t *testing.T) {
	if EncodeMask(nil) != nil {
		t.Error("nil mask must encode to nil")
	}
	if EncodeMask(stain.NewMask(4, 4)) != nil {
		t.Error("empty mask must encode to nil")
	}
}

func TestMaskRLERejectsBadRuns(t *testing.T) {
	bad := &MaskRLE{Width: 2, Height: 2, Runs: []int{3}}
	if _, err := bad.Decode(); err == nil {
		t.Error("expected error for runs not covering the mask")
	}
}

func TestProjectSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.scanproj")

	p := New("test")
	p.Params.BrightnessThreshold = 85
	m := stain.NewMask(3, 3)
	m.Set(1, 1)
	p.Whitelist = EncodeMask(m)
	p.SetImage(path, filepath.Join(dir, "scan.png"))

	if err := p.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Params.BrightnessThreshold != 85 {
		t.Errorf("BrightnessThreshold = %v, want 85", loaded.Params.BrightnessThreshold)
	}
	if loaded.ImagePath != "scan.png" {
		t.Errorf("ImagePath = %q, want relative path", loaded.ImagePath)
	}
	if got := loaded.ResolveImage(path); got != filepath.Join(dir, "scan.png") {
		t.Errorf("ResolveImage = %q", got)
	}

	mask, err := loaded.Whitelist.Decode()
	if err != nil {
		t.Fatalf("whitelist decode failed: %v", err)
	}
	if !mask.At(1, 1) || mask.Count() != 1 {
		t.Error("whitelist mask lost in round trip")
	}
}
