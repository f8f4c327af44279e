package stain

// BlackMask marks every opaque pixel dark and desaturated enough to be
// ink. Transparent pixels are never marked.
func BlackMask(hsv *HSVBuffer, p Params) *Mask {
	m := NewMask(hsv.Width, hsv.Height)
	for y := 0; y < hsv.Height; y++ {
		for x := 0; x < hsv.Width; x++ {
			i := y*hsv.Width + x
			if !hsv.Opaque[i] {
				continue
			}
			if hsv.Val[i] < p.BlackBrightnessThreshold &&
				hsv.Sat[i] < p.BlackSaturationThreshold {
				m.Set(x, y)
			}
		}
	}
	return m
}

// NearBlack reports whether any set pixel of the black mask lies within
// the circle inscribed in a size x size window centered on (x, y). The
// radius is size/2 and the squared-distance test is inclusive, so the
// neighborhood is circular rather than square. Returns on the first hit.
func NearBlack(black *Mask, x, y, size int) bool {
	r := size / 2

	y0, y1 := y-r, y+r
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= black.Height {
		y1 = black.Height - 1
	}
	x0, x1 := x-r, x+r
	if x0 < 0 {
		x0 = 0
	}
	if x1 >= black.Width {
		x1 = black.Width - 1
	}

	for wy := y0; wy <= y1; wy++ {
		dy := wy - y
		for wx := x0; wx <= x1; wx++ {
			dx := wx - x
			if dx*dx+dy*dy > r*r {
				continue
			}
			if black.At(wx, wy) {
				return true
			}
		}
	}
	return false
}
