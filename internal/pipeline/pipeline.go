package pipeline

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/aliskhannn/batch-image-processor/internal/model"
)

// StageError signals that an out-of-range parameter reached a
// transform stage. Upstream validation prevents this; the check here
// is a fallback so a bad parameter can never silently corrupt output.
type StageError struct {
	Stage string
	Param string
	Value float64
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: invalid %s %g", e.Stage, e.Param, e.Value)
}

// Apply runs the full transform chain over one decoded image and
// returns the transformed result. The order is fixed: resize first so
// the costlier filters touch fewer pixels, then blur, sharpen, and
// finally contrast and brightness so they are not diluted by the blur.
// No stage performs I/O.
func Apply(src image.Image, p model.Params) (image.Image, error) {
	img, err := resize(src, p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	if img, err = blur(img, p.Blur); err != nil {
		return nil, err
	}
	if img, err = sharpen(img, p.Sharpen); err != nil {
		return nil, err
	}
	if img, err = contrast(img, p.Contrast); err != nil {
		return nil, err
	}
	return brightness(img, p.Brightness)
}

// resize scales to the exact target dimensions with Lanczos
// resampling; aspect ratio is not preserved. Zero dimensions disable
// resizing, and a target equal to the source size is an exact no-op.
func resize(img image.Image, width, height int) (image.Image, error) {
	if width == 0 && height == 0 {
		return img, nil
	}
	if width <= 0 || height <= 0 {
		return nil, &StageError{Stage: "resize", Param: "dimensions", Value: float64(width * height)}
	}

	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img, nil
	}

	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// blur applies a Gaussian blur with the given radius. Radius zero or
// below is the identity.
func blur(img image.Image, radius float64) (image.Image, error) {
	if radius <= 0 {
		return img, nil
	}
	return imaging.Blur(img, radius), nil
}

// sharpen applies an unsharp-style enhancement. A factor of 1.0 is the
// identity, factors above it sharpen, factors below it soften.
func sharpen(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 {
		return nil, &StageError{Stage: "sharpen", Param: "factor", Value: factor}
	}
	switch {
	case factor == 1.0:
		return img, nil
	case factor > 1.0:
		return imaging.Sharpen(img, factor-1.0), nil
	default:
		return imaging.Blur(img, 1.0-factor), nil
	}
}

// contrast applies a linear contrast enhancement; factor 1.0 is the
// identity.
func contrast(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 {
		return nil, &StageError{Stage: "contrast", Param: "factor", Value: factor}
	}
	if factor == 1.0 {
		return img, nil
	}
	return imaging.AdjustContrast(img, (factor-1.0)*100), nil
}

// brightness applies a linear brightness enhancement; factor 1.0 is
// the identity.
func brightness(img image.Image, factor float64) (image.Image, error) {
	if factor <= 0 {
		return nil, &StageError{Stage: "brightness", Param: "factor", Value: factor}
	}
	if factor == 1.0 {
		return img, nil
	}
	return imaging.AdjustBrightness(img, (factor-1.0)*100), nil
}
