// Package colorutil provides shared color utilities for the scan cleaner application.
package colorutil

import (
	"image/color"
	"math"
)

// Overlay colors used in the detection visualization and canvas overlays.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}   // detected ink pixels
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}   // ink-adjacent, protected
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}   // erased stain pixels
	Amber = color.RGBA{R: 255, G: 191, B: 0, A: 255} // manual whitelist overlay
)

// RGBToHSV converts RGB (0-255) to HSV with H in degrees [0,360),
// S and V as percentages [0,100]. Hue is derived from whichever channel
// is the maximum; a zero maximum yields zero saturation.
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	diff := maxC - minC

	v = maxC * 100.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 100.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == rf {
		h = 60 * math.Mod((gf-bf)/diff, 6)
	} else if maxC == gf {
		h = 60 * ((bf-rf)/diff + 2)
	} else {
		h = 60 * ((rf-gf)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h, s, v
}
