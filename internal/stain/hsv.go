package stain

import (
	"image"
	"runtime"

	"scan-cleaner/pkg/colorutil"

	"golang.org/x/sync/errgroup"
)

// HSVBuffer holds per-pixel HSV samples as parallel planes, indexed
// y*width+x like the source raster. It is built once per processing run
// and read-only afterwards, so the filter passes never reconvert pixels.
type HSVBuffer struct {
	Width  int
	Height int
	Hue    []float64 // degrees, [0,360)
	Sat    []float64 // percent, [0,100]
	Val    []float64 // percent, [0,100]
	Opaque []bool    // alpha > 0
}

// NewHSVBuffer converts the raster to HSV. Rows are converted in
// parallel; every cell depends only on its own source pixel.
func NewHSVBuffer(img *image.RGBA) *HSVBuffer {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	buf := &HSVBuffer{
		Width:  w,
		Height: h,
		Hue:    make([]float64, w*h),
		Sat:    make([]float64, w*h),
		Val:    make([]float64, w*h),
		Opaque: make([]bool, w*h),
	}
	if w == 0 || h == 0 {
		return buf
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for y := 0; y < h; y++ {
		g.Go(func() error {
			off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			row := img.Pix[off : off+w*4]
			for x := 0; x < w; x++ {
				i := y*w + x
				r, gr, b, a := row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
				if a == 0 {
					continue
				}
				buf.Opaque[i] = true
				buf.Hue[i], buf.Sat[i], buf.Val[i] = colorutil.RGBToHSV(r, gr, b)
			}
			return nil
		})
	}
	_ = g.Wait()
	return buf
}
