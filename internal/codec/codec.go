package codec

import (
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"

	// Register the WEBP decoder; imaging covers the other input formats.
	_ "golang.org/x/image/webp"

	"github.com/aliskhannn/batch-image-processor/internal/format"
)

// jpegQuality is used for every lossy JPEG encode.
const jpegQuality = 90

// Decode reads and decodes one image from r. The supported input
// formats are JPEG, PNG, GIF, BMP, TIFF and WEBP.
func Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

// Encode writes img to w in the given format with encoding parameters
// appropriate to that codec: quality 90 for JPEG, default compression
// for PNG/TIFF, lossless for WEBP.
func Encode(w io.Writer, img image.Image, f format.Format) error {
	switch f {
	case format.JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case format.PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case format.BMP:
		return imaging.Encode(w, img, imaging.BMP)
	case format.TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case format.WEBP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}
