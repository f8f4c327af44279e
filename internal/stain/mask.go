// Package stain implements detection and removal of light, low-saturation
// stains on scanned document images while protecting dark ink.
package stain

import "fmt"

// Mask is a boolean raster with the same dimensions and row-major
// y*width+x indexing as the image it was derived from.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask creates an all-false mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

// At reports whether the pixel at (x, y) is set.
func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.Width+x]
}

// Set marks the pixel at (x, y).
func (m *Mask) Set(x, y int) {
	m.bits[y*m.Width+x] = true
}

// Unset clears the pixel at (x, y).
func (m *Mask) Unset(x, y int) {
	m.bits[y*m.Width+x] = false
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.Width, m.Height)
	copy(c.bits, m.bits)
	return c
}

// Union sets every pixel that is set in other. Dimensions must match.
func (m *Mask) Union(other *Mask) error {
	if err := m.CheckDimensions(other.Width, other.Height); err != nil {
		return err
	}
	for i, b := range other.bits {
		if b {
			m.bits[i] = true
		}
	}
	return nil
}

// Equal reports whether both masks have identical dimensions and bits.
func (m *Mask) Equal(other *Mask) bool {
	if m.Width != other.Width || m.Height != other.Height {
		return false
	}
	for i, b := range m.bits {
		if b != other.bits[i] {
			return false
		}
	}
	return true
}

// CheckDimensions returns an error when the mask does not cover a
// width x height raster. Stages must reject mismatched masks rather
// than truncate or wrap.
func (m *Mask) CheckDimensions(width, height int) error {
	if m.Width != width || m.Height != height {
		return fmt.Errorf("mask is %dx%d, raster is %dx%d",
			m.Width, m.Height, width, height)
	}
	return nil
}

// StampCircle sets every pixel within radius of (cx, cy), clipped to the
// mask bounds. Used by the whitelist brush.
func (m *Mask) StampCircle(cx, cy, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				x, y := cx+dx, cy+dy
				if x >= 0 && x < m.Width && y >= 0 && y < m.Height {
					m.bits[y*m.Width+x] = true
				}
			}
		}
	}
}
