package testimg

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Pattern selects the content of a generated test image.
type Pattern string

const (
	Gradient     Pattern = "gradient"
	Checkerboard Pattern = "checkerboard"
	Circles      Pattern = "circles"
	Noise        Pattern = "noise"
	Lines        Pattern = "lines"
)

// patterns in generation rotation order.
var patterns = []Pattern{Gradient, Checkerboard, Circles, Noise, Lines}

// New renders a test image with the given pattern and size.
func New(pattern Pattern, width, height int) image.Image {
	switch pattern {
	case Checkerboard:
		return checkerboard(width, height)
	case Circles:
		return circles(width, height)
	case Noise:
		return noise(width, height)
	case Lines:
		return lines(width, height)
	default:
		return gradient(width, height)
	}
}

// Generate writes n test images into dir, cycling through the
// patterns, and returns the created file paths.
func Generate(dir string, n, width, height int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create test image directory: %w", err)
	}

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pattern := patterns[i%len(patterns)]
		name := fmt.Sprintf("test_image_%d_%s.png", i+1, pattern)
		path := filepath.Join(dir, name)

		if err := imaging.Save(New(pattern, width, height), path); err != nil {
			return nil, fmt.Errorf("failed to save test image %s: %w", name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// gradient renders a horizontal grayscale gradient.
func gradient(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		v := uint8(x * 255 / width)
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// checkerboard renders alternating black boxes on white.
func checkerboard(width, height int) image.Image {
	const box = 100

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	for x := 0; x < width; x += box {
		for y := 0; y < height; y += box {
			if (x+y)/box%2 == 0 {
				dc.DrawRectangle(float64(x), float64(y), box, box)
				dc.Fill()
			}
		}
	}
	return dc.Image()
}

// circles renders concentric circles around the image center.
func circles(width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)

	cx, cy := float64(width)/2, float64(height)/2
	max := min(width, height) / 2
	for r := 50; r < max; r += 50 {
		dc.DrawCircle(cx, cy, float64(r))
		dc.Stroke()
	}
	return dc.Image()
}

// noise renders uniform random RGB noise.
func noise(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rand.Intn(256)),
				G: uint8(rand.Intn(256)),
				B: uint8(rand.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// lines renders diagonal lines on white.
func lines(width, height int) image.Image {
	const spacing = 50

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	for x := -height; x < width+height; x += spacing {
		dc.DrawLine(float64(x), 0, float64(x+height), float64(height))
		dc.Stroke()
	}
	return dc.Image()
}
