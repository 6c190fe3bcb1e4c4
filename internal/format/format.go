package format

import (
	"path/filepath"
	"strings"
	"sync"
)

// Format identifies the codec used to encode an output image.
type Format string

const (
	JPEG Format = "JPEG"
	PNG  Format = "PNG"
	BMP  Format = "BMP"
	TIFF Format = "TIFF"
	WEBP Format = "WEBP"
)

// byExtension is the fixed extension-to-codec rule table. It never
// changes within a process lifetime.
var byExtension = map[string]Format{
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
	".bmp":  BMP,
	".tiff": TIFF,
	".webp": WEBP,
}

// Extension returns the canonical filename extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case BMP:
		return ".bmp"
	case TIFF:
		return ".tiff"
	case WEBP:
		return ".webp"
	default:
		return ".jpg"
	}
}

// Cache memoizes filename-to-format resolution for the lifetime of a
// batch. Resolution is idempotent, so concurrent appends for the same
// key are conflict-free.
type Cache struct {
	mu sync.RWMutex
	m  map[string]Format
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]Format)}
}

// Resolve maps a filename to its output format. An explicit override
// takes precedence unconditionally and bypasses extension inspection.
// Unknown extensions fall back to JPEG; Resolve always returns a value.
func (c *Cache) Resolve(filename string, override Format) Format {
	if override != "" {
		return override
	}

	c.mu.RLock()
	f, ok := c.m[filename]
	c.mu.RUnlock()
	if ok {
		return f
	}

	f = resolve(filename)

	c.mu.Lock()
	c.m[filename] = f
	c.mu.Unlock()

	return f
}

// resolve performs the actual extension lookup.
func resolve(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := byExtension[ext]; ok {
		return f
	}
	return JPEG
}

// Supported reports whether a filename carries one of the recognized
// image extensions. Used by directory scanning to filter input files.
func Supported(filename string) bool {
	_, ok := byExtension[strings.ToLower(filepath.Ext(filename))]
	return ok
}
