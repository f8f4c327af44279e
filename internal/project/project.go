// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scan-cleaner/internal/stain"
)

// File represents a scan cleaner project file (.scanproj).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Image path (relative to project file)
	ImagePath string `json:"image,omitempty"`

	// Detection parameters
	Params stain.Params `json:"params"`

	// Manual whitelist mask, run-length encoded
	Whitelist *MaskRLE `json:"whitelist,omitempty"`
}

// MaskRLE is a run-length encoded boolean mask. Runs alternate starting
// with false: [3, 2, 5] means 3 clear, 2 set, 5 clear pixels in
// y*width+x order.
type MaskRLE struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Runs   []int `json:"runs"`
}

// EncodeMask converts a mask to its run-length form. A nil or empty
// mask encodes to nil so it is omitted from the project file.
func EncodeMask(m *stain.Mask) *MaskRLE {
	if m == nil || m.Count() == 0 {
		return nil
	}

	rle := &MaskRLE{Width: m.Width, Height: m.Height}
	current := false
	run := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) == current {
				run++
				continue
			}
			rle.Runs = append(rle.Runs, run)
			current = !current
			run = 1
		}
	}
	rle.Runs = append(rle.Runs, run)
	return rle
}

// Decode reconstructs the mask from its run-length form.
func (r *MaskRLE) Decode() (*stain.Mask, error) {
	m := stain.NewMask(r.Width, r.Height)
	total := 0
	set := false
	for _, run := range r.Runs {
		if run < 0 {
			return nil, fmt.Errorf("negative run length %d", run)
		}
		if set {
			for i := total; i < total+run; i++ {
				m.Set(i%r.Width, i/r.Width)
			}
		}
		total += run
		set = !set
	}
	if total != r.Width*r.Height {
		return nil, fmt.Errorf("runs cover %d pixels, mask is %dx%d",
			total, r.Width, r.Height)
	}
	return m, nil
}

// New creates a new project file with default parameters.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Params:   stain.DefaultParams(),
	}
}

// Load loads a project from a .scanproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage stores the image path relative to the project location.
func (p *File) SetImage(projectPath, imagePath string) {
	if rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath); err == nil {
		p.ImagePath = rel
	} else {
		p.ImagePath = imagePath
	}
}

// ResolveImage returns the absolute image path for a project loaded
// from projectPath.
func (p *File) ResolveImage(projectPath string) string {
	if p.ImagePath == "" || filepath.IsAbs(p.ImagePath) {
		return p.ImagePath
	}
	return filepath.Join(filepath.Dir(projectPath), p.ImagePath)
}
