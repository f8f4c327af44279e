package stain

// MeanSat returns the mean saturation of the kernel-sized box window
// centered on (x, y), matching zero-padded box-blur semantics: samples
// outside the image and transparent pixels contribute nothing to the
// sum, but the denominator is always the full kernel area. A stain
// pixel near the image edge therefore averages lower, never higher.
func (b *HSVBuffer) MeanSat(x, y, kernel int) float64 {
	r := kernel / 2
	total := kernel * kernel
	if total == 0 {
		return 0
	}

	sum := 0.0
	for wy := y - r; wy <= y+r; wy++ {
		if wy < 0 || wy >= b.Height {
			continue
		}
		for wx := x - r; wx <= x+r; wx++ {
			if wx < 0 || wx >= b.Width {
				continue
			}
			i := wy*b.Width + wx
			if b.Opaque[i] {
				sum += b.Sat[i]
			}
		}
	}
	return sum / float64(total)
}
