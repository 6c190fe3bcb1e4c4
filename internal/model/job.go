package model

import (
	"fmt"

	"github.com/aliskhannn/batch-image-processor/internal/format"
)

// Job describes one unit of work: a single input file, where its
// processed result goes, and the transform parameters to apply.
// A Job is created once before dispatch and never mutated after.
type Job struct {
	InputPath  string        `json:"input_path"`
	OutputPath string        `json:"output_path"`
	Params     Params        `json:"params"`
	Format     format.Format `json:"format,omitempty"` // explicit output format; empty means extension-derived
}

// Params holds the transform parameters shared read-only by every job
// in a batch. Width and Height of zero disable resizing; a factor of
// 1.0 is the identity for sharpen, contrast and brightness; a blur
// radius of zero or below is a no-op.
type Params struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Blur       float64 `json:"blur"`
	Sharpen    float64 `json:"sharpen"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
}

// Validate checks the parameter ranges before any job begins. A batch
// must never be dispatched with parameters that fail validation.
func (p Params) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("resize dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	if (p.Width == 0) != (p.Height == 0) {
		return fmt.Errorf("resize requires both width and height, got %dx%d", p.Width, p.Height)
	}
	if p.Sharpen <= 0 {
		return fmt.Errorf("sharpen factor must be > 0, got %g", p.Sharpen)
	}
	if p.Contrast <= 0 {
		return fmt.Errorf("contrast factor must be > 0, got %g", p.Contrast)
	}
	if p.Brightness <= 0 {
		return fmt.Errorf("brightness factor must be > 0, got %g", p.Brightness)
	}
	return nil
}
