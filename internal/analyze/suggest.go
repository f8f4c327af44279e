// Package analyze derives parameter suggestions from image statistics.
package analyze

import (
	"sort"

	"scan-cleaner/internal/stain"

	"gonum.org/v1/gonum/stat"
)

// Suggestion holds advisory threshold values derived from the value and
// saturation distributions of the opaque pixels. Purely informational:
// nothing here feeds back into a running pipeline invocation.
type Suggestion struct {
	BrightnessThreshold float64
	SaturationThreshold float64

	MeanValue      float64
	MeanSaturation float64
	StdDevValue    float64
}

// Suggest estimates brightness and saturation thresholds for a scan.
// On a paper-dominated scan, most pixel values sit in a bright mass with
// a small dark tail of ink; the lower quartile of the value distribution
// still lands inside the paper mass, so slightly below it separates
// paper-colored stains from content. The saturation threshold sits just
// above the bulk of the (nearly gray) paper pixels.
func Suggest(hsv *stain.HSVBuffer) Suggestion {
	var vals, sats []float64
	for i, ok := range hsv.Opaque {
		if !ok {
			continue
		}
		vals = append(vals, hsv.Val[i])
		sats = append(sats, hsv.Sat[i])
	}

	if len(vals) == 0 {
		p := stain.DefaultParams()
		return Suggestion{
			BrightnessThreshold: p.BrightnessThreshold,
			SaturationThreshold: p.SaturationThreshold,
		}
	}

	sort.Float64s(vals)
	sort.Float64s(sats)

	s := Suggestion{
		MeanValue:      stat.Mean(vals, nil),
		MeanSaturation: stat.Mean(sats, nil),
		StdDevValue:    stat.StdDev(vals, nil),
	}

	s.BrightnessThreshold = clamp(stat.Quantile(0.25, stat.Empirical, vals, nil)-5, 40, 95)
	s.SaturationThreshold = clamp(stat.Quantile(0.75, stat.Empirical, sats, nil)+5, 5, 40)

	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
