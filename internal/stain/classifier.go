package stain

// classification is the outcome of the two-pass candidate classifier.
// Initial holds every pixel that passed the brightness, saturation and
// local-mean-saturation tests; Final is Initial minus the ink-adjacent
// pixels, which end up in Shielded instead.
type classification struct {
	Initial  *Mask
	Final    *Mask
	Shielded *Mask

	Bright     int // pixels above the brightness threshold
	LowSat     int // pixels below the saturation threshold
	Candidates int // pixels passing both
	LowSatArea int // candidates whose local mean saturation also passed
	NearBlack  int // candidates shielded by nearby ink
}

// classify runs both classifier passes. The black mask is only read,
// never written: pass 2 must test proximity against the ink pixels of
// the source image, not against a mask being edited underneath it.
func classify(hsv *HSVBuffer, black *Mask, p Params) classification {
	c := classification{
		Initial:  NewMask(hsv.Width, hsv.Height),
		Final:    NewMask(hsv.Width, hsv.Height),
		Shielded: NewMask(hsv.Width, hsv.Height),
	}

	// Pass 1: per-pixel color tests plus the local mean saturation of
	// the blur window.
	for y := 0; y < hsv.Height; y++ {
		for x := 0; x < hsv.Width; x++ {
			i := y*hsv.Width + x
			if !hsv.Opaque[i] {
				continue
			}

			isBright := hsv.Val[i] > p.BrightnessThreshold
			isLowSat := hsv.Sat[i] < p.SaturationThreshold
			if isBright {
				c.Bright++
			}
			if isLowSat {
				c.LowSat++
			}
			if !isBright || !isLowSat {
				continue
			}
			c.Candidates++

			if hsv.MeanSat(x, y, p.BlurKernelSize) < p.MeanSaturationThreshold {
				c.Initial.Set(x, y)
				c.LowSatArea++
			}
		}
	}

	// Pass 2: drop candidates with ink inside the structuring element.
	for y := 0; y < hsv.Height; y++ {
		for x := 0; x < hsv.Width; x++ {
			if !c.Initial.At(x, y) {
				continue
			}
			if NearBlack(black, x, y, p.StructuringElementSize) {
				c.Shielded.Set(x, y)
				c.NearBlack++
			} else {
				c.Final.Set(x, y)
			}
		}
	}

	return c
}
