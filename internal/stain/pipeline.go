package stain

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"scan-cleaner/pkg/colorutil"
)

// Stats reports pixel counts accumulated during one processing run,
// together with an echo of the parameters that produced them. Purely
// observational; nothing feeds back into the pipeline.
type Stats struct {
	BrightPixels      int `json:"bright_pixels"`
	LowSatPixels      int `json:"low_sat_pixels"`
	StainCandidates   int `json:"stain_candidates"`
	LowSatAreaPixels  int `json:"low_sat_area_pixels"`
	NearBlackPixels   int `json:"near_black_pixels"`
	ReplacedPixels    int `json:"replaced_pixels"`
	BlackPixels       int `json:"black_pixels"`
	WhitelistedPixels int `json:"whitelisted_pixels"`

	Params Params `json:"params"`
}

// Result bundles the two output rasters and the run statistics.
// Cleaned is the source with stain pixels made fully transparent;
// Overlay is a diagnostic view with ink red, shielded candidates blue
// and erased pixels green.
type Result struct {
	Cleaned *image.RGBA
	Overlay *image.RGBA
	Stats   Stats
}

// Process runs the full detection pipeline once over the source raster.
// It is a pure function of its inputs: no state is shared across calls
// and concurrent invocations on different images need no locking. The
// optional whitelist mask protects user-marked pixels from removal; nil
// means no whitelist. The source raster is never modified.
func Process(src *image.RGBA, p Params, whitelist *Mask) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	if whitelist != nil {
		if err := whitelist.CheckDimensions(w, h); err != nil {
			return nil, fmt.Errorf("whitelist mask: %w", err)
		}
	}

	res := &Result{
		Cleaned: cloneRGBA(src),
		Overlay: cloneRGBA(src),
		Stats:   Stats{Params: p},
	}
	if w == 0 || h == 0 {
		return res, nil
	}

	hsv := NewHSVBuffer(src)

	black := BlackMask(hsv, p)
	res.Stats.BlackPixels = black.Count()
	paint(res.Overlay, black, colorutil.Red)

	c := classify(hsv, black, p)
	res.Stats.BrightPixels = c.Bright
	res.Stats.LowSatPixels = c.LowSat
	res.Stats.StainCandidates = c.Candidates
	res.Stats.LowSatAreaPixels = c.LowSatArea
	res.Stats.NearBlackPixels = c.NearBlack
	res.Stats.ReplacedPixels = c.Final.Count()
	paint(res.Overlay, c.Shielded, colorutil.Blue)

	opened := Open(c.Final, p.OpeningKernelSize)

	if whitelist != nil {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if whitelist.At(x, y) && opened.At(x, y) {
					opened.Unset(x, y)
					res.Stats.WhitelistedPixels++
				}
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !opened.At(x, y) {
				continue
			}
			i := res.Cleaned.PixOffset(res.Cleaned.Rect.Min.X+x, res.Cleaned.Rect.Min.Y+y)
			res.Cleaned.Pix[i] = 0
			res.Cleaned.Pix[i+1] = 0
			res.Cleaned.Pix[i+2] = 0
			res.Cleaned.Pix[i+3] = 0
		}
	}
	paint(res.Overlay, opened, colorutil.Green)

	return res, nil
}

// paint colors every set mask pixel in the overlay. Later stages may
// repaint a pixel (erased wins over ink), matching the stage order in
// Process.
func paint(img *image.RGBA, m *Mask, c color.RGBA) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
	return dst
}
