package app

import (
	goimage "image"
	"image/color"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"scan-cleaner/internal/image"
	"scan-cleaner/internal/stain"

	"github.com/rs/zerolog"
)

func writeTestScan(t *testing.T, dir string) string {
	t.Helper()
	img := goimage.NewRGBA(goimage.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	path := filepath.Join(dir, "scan.png")
	if err := image.SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	return path
}

func TestLoadImageResetsWhitelist(t *testing.T) {
	s := NewState(zerolog.Nop())
	path := writeTestScan(t, t.TempDir())

	var loaded bool
	s.On(EventImageLoaded, func(interface{}) { loaded = true })

	if err := s.LoadImage(path); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if !loaded {
		t.Error("EventImageLoaded not emitted")
	}

	s.PaintWhitelist(1, 1, 1)
	if s.WhitelistCopy().Count() == 0 {
		t.Fatal("brush stroke did not mark the whitelist")
	}

	// Loading again must clear whitelist and history.
	if err := s.LoadImage(path); err != nil {
		t.Fatalf("second LoadImage failed: %v", err)
	}
	if s.WhitelistCopy().Count() != 0 {
		t.Error("whitelist must be cleared on image load")
	}
	if s.UndoWhitelist() {
		t.Error("history must be cleared on image load")
	}
}

func TestWhitelistUndoRedo(t *testing.T) {
	s := NewState(zerolog.Nop())
	if err := s.LoadImage(writeTestScan(t, t.TempDir())); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	s.PaintWhitelist(0, 0, 0)
	s.PaintWhitelist(3, 3, 0)
	if s.WhitelistCopy().Count() != 2 {
		t.Fatalf("expected 2 painted pixels, got %d", s.WhitelistCopy().Count())
	}

	if !s.UndoWhitelist() {
		t.Fatal("UndoWhitelist failed")
	}
	if got := s.WhitelistCopy(); got.Count() != 1 || !got.At(0, 0) {
		t.Error("undo must restore the single-stroke mask")
	}

	if !s.RedoWhitelist() {
		t.Fatal("RedoWhitelist failed")
	}
	if s.WhitelistCopy().Count() != 2 {
		t.Error("redo must restore both strokes")
	}
}

func TestProjectRoundTripThroughState(t *testing.T) {
	dir := t.TempDir()
	scan := writeTestScan(t, dir)

	s := NewState(zerolog.Nop())
	if err := s.LoadImage(scan); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	p := s.GetParams()
	p.BrightnessThreshold = 66
	s.SetParams(p)
	s.PaintWhitelist(2, 2, 0)

	projPath := filepath.Join(dir, "session.scanproj")
	if err := s.SaveProject(projPath); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	restored := NewState(zerolog.Nop())
	if err := restored.LoadProject(projPath); err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if restored.GetParams().BrightnessThreshold != 66 {
		t.Errorf("BrightnessThreshold = %v, want 66", restored.GetParams().BrightnessThreshold)
	}
	if wl := restored.WhitelistCopy(); wl == nil || !wl.At(2, 2) {
		t.Error("whitelist not restored from project")
	}
	if restored.Layer == nil || restored.Layer.Width() != 4 {
		t.Error("image not restored from project")
	}
}

func TestRunnerLastWriterWins(t *testing.T) {
	img := goimage.NewRGBA(goimage.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	var mu sync.Mutex
	var results []stain.Params
	done := make(chan struct{}, 8)

	r := NewRunner(10*time.Millisecond, zerolog.Nop(), func(res *stain.Result) {
		mu.Lock()
		results = append(results, res.Stats.Params)
		mu.Unlock()
		done <- struct{}{}
	}, nil)

	// Two quick requests within the debounce window: only the second
	// may produce a result.
	p1 := stain.DefaultParams()
	p1.BrightnessThreshold = 10
	p2 := stain.DefaultParams()
	p2.BrightnessThreshold = 90

	r.Request(img, p1, nil)
	r.Request(img, p2, nil)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	// Give a potential stale run time to (wrongly) deliver.
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].BrightnessThreshold != 90 {
		t.Errorf("delivered result used threshold %v, want the newest (90)",
			results[0].BrightnessThreshold)
	}
}

func TestRunnerReportsErrors(t *testing.T) {
	img := goimage.NewRGBA(goimage.Rect(0, 0, 2, 2))

	errCh := make(chan error, 1)
	r := NewRunner(time.Millisecond, zerolog.Nop(), nil, func(err error) {
		errCh <- err
	})

	bad := stain.DefaultParams()
	bad.BlurKernelSize = 4
	r.Request(img, bad, nil)

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected a non-nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error callback")
	}
}
