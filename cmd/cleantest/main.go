// Command cleantest runs stain removal on a scanned image and writes the
// cleaned and overlay rasters alongside run statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	"scan-cleaner/internal/analyze"
	scanimage "scan-cleaner/internal/image"
	"scan-cleaner/internal/stain"
)

func main() {
	imagePath := flag.String("image", "", "Path to scanned image (TIFF, PNG, or JPEG)")
	cleanedOut := flag.String("out", "cleaned.png", "Output path for the cleaned image")
	overlayOut := flag.String("overlay", "", "Output path for the diagnostic overlay (empty to skip)")
	suggest := flag.Bool("suggest", false, "Derive brightness/saturation thresholds from the image")

	defaults := stain.DefaultParams()
	brightness := flag.Float64("brightness", defaults.BrightnessThreshold, "Brightness threshold (V, 0-100)")
	saturation := flag.Float64("saturation", defaults.SaturationThreshold, "Saturation threshold (S, 0-100)")
	meanSat := flag.Float64("mean-saturation", defaults.MeanSaturationThreshold, "Local mean saturation threshold")
	blackBright := flag.Float64("black-brightness", defaults.BlackBrightnessThreshold, "Ink brightness ceiling")
	blackSat := flag.Float64("black-saturation", defaults.BlackSaturationThreshold, "Ink saturation ceiling")
	shield := flag.Int("shield", defaults.StructuringElementSize, "Ink protection window (odd)")
	blur := flag.Int("blur", defaults.BlurKernelSize, "Mean saturation window (odd)")
	opening := flag.Int("opening", defaults.OpeningKernelSize, "Opening kernel (odd)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: cleantest -image <path> [-out cleaned.png] [-overlay overlay.png] [-suggest]")
		os.Exit(1)
	}

	layer, err := scanimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s: %dx%d pixels", *imagePath, layer.Width(), layer.Height())
	if layer.DPI > 0 {
		fmt.Printf(" (%.0f DPI)", layer.DPI)
	}
	fmt.Println()

	params := stain.Params{
		BrightnessThreshold:      *brightness,
		SaturationThreshold:      *saturation,
		MeanSaturationThreshold:  *meanSat,
		BlackBrightnessThreshold: *blackBright,
		BlackSaturationThreshold: *blackSat,
		StructuringElementSize:   *shield,
		BlurKernelSize:           *blur,
		OpeningKernelSize:        *opening,
	}

	if *suggest {
		s := analyze.Suggest(stain.NewHSVBuffer(layer.Raster))
		params.BrightnessThreshold = s.BrightnessThreshold
		params.SaturationThreshold = s.SaturationThreshold
		fmt.Printf("\nSuggested thresholds (mean V %.1f, mean S %.1f, stddev V %.1f):\n",
			s.MeanValue, s.MeanSaturation, s.StdDevValue)
		fmt.Printf("  brightness: %.1f\n", params.BrightnessThreshold)
		fmt.Printf("  saturation: %.1f\n", params.SaturationThreshold)
	}

	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Stain: V > %.1f, S < %.1f, mean S < %.1f (blur %dpx)\n",
		params.BrightnessThreshold, params.SaturationThreshold,
		params.MeanSaturationThreshold, params.BlurKernelSize)
	fmt.Printf("  Ink: V < %.1f, S < %.1f, shield %dpx\n",
		params.BlackBrightnessThreshold, params.BlackSaturationThreshold,
		params.StructuringElementSize)
	fmt.Printf("  Opening kernel: %dpx\n", params.OpeningKernelSize)

	fmt.Printf("\nProcessing...\n")
	result, err := stain.Process(layer.Raster, params, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}

	st := result.Stats
	fmt.Printf("\nStatistics:\n")
	fmt.Printf("  %-24s %10d\n", "Bright pixels", st.BrightPixels)
	fmt.Printf("  %-24s %10d\n", "Low saturation pixels", st.LowSatPixels)
	fmt.Printf("  %-24s %10d\n", "Stain candidates", st.StainCandidates)
	fmt.Printf("  %-24s %10d\n", "Low-sat area pixels", st.LowSatAreaPixels)
	fmt.Printf("  %-24s %10d\n", "Shielded by ink", st.NearBlackPixels)
	fmt.Printf("  %-24s %10d\n", "Ink pixels", st.BlackPixels)
	fmt.Printf("  %-24s %10d\n", "Removed pixels", st.ReplacedPixels)

	if err := scanimage.SavePNG(*cleanedOut, result.Cleaned); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write cleaned image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", *cleanedOut)

	if *overlayOut != "" {
		if err := scanimage.SavePNG(*overlayOut, result.Overlay); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *overlayOut)
	}
}
