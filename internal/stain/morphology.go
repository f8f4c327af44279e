package stain

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Erode returns a mask where a pixel stays set only when every in-bounds
// pixel of the kernel-sized window around it is set. Out-of-bounds
// neighbors are skipped, not treated as false, so a solid region touching
// the image edge is not eaten away from outside.
func Erode(m *Mask, kernel int) *Mask {
	return morph(m, kernel, true)
}

// Dilate returns a mask where a pixel becomes set when any in-bounds
// pixel of the window around it is set.
func Dilate(m *Mask, kernel int) *Mask {
	return morph(m, kernel, false)
}

// Open erodes then dilates, removing thin and isolated set regions
// without shrinking the net extent of larger ones. The two passes stay
// separate primitives: dilation must read the fully eroded mask.
func Open(m *Mask, kernel int) *Mask {
	return Dilate(Erode(m, kernel), kernel)
}

func morph(m *Mask, kernel int, all bool) *Mask {
	out := NewMask(m.Width, m.Height)
	r := kernel / 2

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for y := 0; y < m.Height; y++ {
		g.Go(func() error {
			for x := 0; x < m.Width; x++ {
				if windowAllAny(m, x, y, r, all) {
					out.Set(x, y)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// windowAllAny scans the clipped window around (x, y). With all=true it
// reports whether every in-bounds pixel is set (erosion); otherwise
// whether any is (dilation).
func windowAllAny(m *Mask, x, y, r int, all bool) bool {
	y0, y1 := y-r, y+r
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= m.Height {
		y1 = m.Height - 1
	}
	x0, x1 := x-r, x+r
	if x0 < 0 {
		x0 = 0
	}
	if x1 >= m.Width {
		x1 = m.Width - 1
	}

	for wy := y0; wy <= y1; wy++ {
		for wx := x0; wx <= x1; wx++ {
			if m.At(wx, wy) != all {
				return !all
			}
		}
	}
	return all
}
