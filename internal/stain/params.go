package stain

import "fmt"

// Params holds the eight numeric knobs for stain detection.
// Thresholds are in HSV percentage units (S and V range 0-100);
// sizes are pixel widths of square windows and must be odd.
type Params struct {
	// A pixel is a stain candidate when it is brighter than
	// BrightnessThreshold and less saturated than SaturationThreshold.
	BrightnessThreshold float64 `json:"brightness_threshold"`
	SaturationThreshold float64 `json:"saturation_threshold"`

	// A candidate survives only when the mean saturation of its
	// surrounding blur window stays below this.
	MeanSaturationThreshold float64 `json:"mean_saturation_threshold"`

	// A pixel counts as ink when both its brightness and saturation
	// fall below these.
	BlackBrightnessThreshold float64 `json:"black_brightness_threshold"`
	BlackSaturationThreshold float64 `json:"black_saturation_threshold"`

	// StructuringElementSize is the width of the circular neighborhood
	// searched for ink around a candidate; candidates with ink inside
	// the inscribed circle are protected.
	StructuringElementSize int `json:"structuring_element_size"`

	// BlurKernelSize is the box window used for local mean saturation.
	BlurKernelSize int `json:"blur_kernel_size"`

	// OpeningKernelSize is used for the morphological opening that
	// denoises the removal mask.
	OpeningKernelSize int `json:"opening_kernel_size"`
}

// DefaultParams returns detection parameters tuned for light,
// low-saturation stains on grayscale-ish document scans.
func DefaultParams() Params {
	return Params{
		// Stains are bright (V > 78%) and nearly gray (S < 16%).
		BrightnessThreshold: 78,
		SaturationThreshold: 16,

		// Colored content pulls the local mean saturation up even when a
		// single pixel slips under the per-pixel threshold.
		MeanSaturationThreshold: 20,

		// Ink is dark and desaturated. The saturation bound is loose
		// because JPEG artifacts tint dark pixels.
		BlackBrightnessThreshold: 25,
		BlackSaturationThreshold: 31,

		// 51px window = 25px protection radius around ink strokes.
		StructuringElementSize: 51,

		BlurKernelSize:    5,
		OpeningKernelSize: 3,
	}
}

// Validate rejects parameter combinations the pipeline cannot run with.
// Kernel and structuring sizes must be odd and at least 3; the GUI
// normalizes slider values before they ever reach here, so a failure
// indicates a programming error in the caller.
func (p Params) Validate() error {
	for _, s := range []struct {
		name string
		size int
	}{
		{"structuring element size", p.StructuringElementSize},
		{"blur kernel size", p.BlurKernelSize},
		{"opening kernel size", p.OpeningKernelSize},
	} {
		if s.size < 3 {
			return fmt.Errorf("%s must be at least 3, got %d", s.name, s.size)
		}
		if s.size%2 == 0 {
			return fmt.Errorf("%s must be odd, got %d", s.name, s.size)
		}
	}
	return nil
}
