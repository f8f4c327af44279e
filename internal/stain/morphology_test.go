package stain

import "testing"

func maskFromRows(rows []string) *Mask {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	m := NewMask(w, h)
	for y, row := range rows {
		for x := range row {
			if row[x] == '#' {
				m.Set(x, y)
			}
		}
	}
	return m
}

func assertMask(t *testing.T, got *Mask, rows []string) {
	t.Helper()
	want := maskFromRows(rows)
	if !got.Equal(want) {
		t.Errorf("mask mismatch: got %d set, want %d set", got.Count(), want.Count())
		for y := 0; y < got.Height; y++ {
			line := make([]byte, got.Width)
			for x := 0; x < got.Width; x++ {
				line[x] = '.'
				if got.At(x, y) {
					line[x] = '#'
				}
			}
			t.Logf("row %d: %s", y, line)
		}
	}
}

func TestErodeSinglePixel(t *testing.T) {
	m := maskFromRows([]string{
		".....",
		".....",
		"..#..",
		".....",
		".....",
	})
	assertMask(t, Erode(m, 3), []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
}

func TestDilateSinglePixel(t *testing.T) {
	m := maskFromRows([]string{
		".....",
		".....",
		"..#..",
		".....",
		".....",
	})
	assertMask(t, Dilate(m, 3), []string{
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	})
}

func TestErodeKeepsEdgePixels(t *testing.T) {
	// Out-of-bounds neighbors are excluded from the check, not treated
	// as false, so a fully set mask survives erosion intact.
	m := maskFromRows([]string{
		"#####",
		"#####",
		"#####",
		"#####",
		"#####",
	})
	assertMask(t, Erode(m, 3), []string{
		"#####",
		"#####",
		"#####",
		"#####",
		"#####",
	})
}

func TestOpenRemovesThinLine(t *testing.T) {
	m := maskFromRows([]string{
		".....",
		".....",
		"#####",
		".....",
		".....",
	})
	assertMask(t, Open(m, 3), []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	})
}

func TestOpenPreservesBlock(t *testing.T) {
	m := maskFromRows([]string{
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	})
	got := Open(m, 3)
	if !got.Equal(m) {
		t.Error("opening must not shrink a block as large as the kernel")
	}
}

func TestOpenIdempotent(t *testing.T) {
	m := maskFromRows([]string{
		"##....#",
		"###..##",
		"###...#",
		".......",
		"..####.",
		"..####.",
		"#..##..",
	})
	once := Open(m, 3)
	twice := Open(once, 3)
	if !twice.Equal(once) {
		t.Error("open(open(m)) must equal open(m)")
	}
}
