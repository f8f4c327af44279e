// Package image provides scan loading, raster conversion, and export.
package image

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Layer represents one loaded scan.
type Layer struct {
	Path   string       // Original file path
	Raster *image.RGBA  // Decoded pixels, origin (0,0)
	DPI    float64      // From TIFF metadata when available, else 0
}

// Load decodes an image file into a Layer. PNG, JPEG, and TIFF are
// supported. Whatever the source pixel format, the raster is converted
// to RGBA so the pipeline sees one channel layout.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := &Layer{
		Path:   path,
		Raster: ToRGBA(img),
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := extractTIFFDPI(path); err == nil {
			layer.DPI = dpi
		}
	}

	return layer, nil
}

// Width returns the raster width in pixels.
func (l *Layer) Width() int {
	if l.Raster == nil {
		return 0
	}
	return l.Raster.Rect.Dx()
}

// Height returns the raster height in pixels.
func (l *Layer) Height() int {
	if l.Raster == nil {
		return 0
	}
	return l.Raster.Rect.Dy()
}

// ToRGBA normalizes any decoded image to an RGBA raster anchored at the
// origin. The input is returned unchanged when it already qualifies.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return dst
}

// SavePNG writes the raster as a PNG file. PNG keeps the per-pixel
// alpha, which is how erased stain pixels are represented.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// extractTIFFDPI attempts to extract DPI from TIFF metadata.
func extractTIFFDPI(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	// Read TIFF header to determine byte order
	header := make([]byte, 8)
	if _, err := file.Read(header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	if header[0] == 'I' && header[1] == 'I' {
		byteOrder = binary.LittleEndian
	} else if header[0] == 'M' && header[1] == 'M' {
		byteOrder = binary.BigEndian
	} else {
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := file.Seek(int64(ifdOffset), 0); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(file, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // Default to inches

	for i := uint16(0); i < numEntries; i++ {
		entry := make([]byte, 12)
		if _, err := file.Read(entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		valueOffset := byteOrder.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 { // RATIONAL
				xRes = readTIFFRational(file, int64(valueOffset), byteOrder)
			}
		case 283: // YResolution
			if fieldType == 5 { // RATIONAL
				yRes = readTIFFRational(file, int64(valueOffset), byteOrder)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 { // SHORT
				resUnit = uint16(valueOffset)
			}
		}
	}

	if xRes == 0 && yRes == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}

	// Convert from centimeters to inches if needed
	if resUnit == 3 {
		dpi *= 2.54
	}

	return dpi, nil
}

// readTIFFRational reads a RATIONAL value (two uint32s) at the given offset.
func readTIFFRational(file *os.File, offset int64, byteOrder binary.ByteOrder) float64 {
	current, err := file.Seek(0, 1)
	if err != nil {
		return 0
	}
	defer file.Seek(current, 0)

	if _, err := file.Seek(offset, 0); err != nil {
		return 0
	}

	var numerator, denominator uint32
	if err := binary.Read(file, byteOrder, &numerator); err != nil {
		return 0
	}
	if err := binary.Read(file, byteOrder, &denominator); err != nil {
		return 0
	}

	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
