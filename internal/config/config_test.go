package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/batch-image-processor/internal/format"
)

func TestParseResize(t *testing.T) {
	w, h, err := ParseResize("800x600")
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	w, h, err = ParseResize("")
	require.NoError(t, err)
	assert.Zero(t, w)
	assert.Zero(t, h)

	_, _, err = ParseResize("800")
	assert.Error(t, err)

	_, _, err = ParseResize("800xabc")
	assert.Error(t, err)
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want format.Format
	}{
		{"", ""},
		{"jpg", format.JPEG},
		{"JPEG", format.JPEG},
		{"png", format.PNG},
		{"bmp", format.BMP},
		{"tiff", format.TIFF},
		{"webp", format.WEBP},
	}

	for _, tt := range tests {
		cfg := &Config{Format: tt.in}
		got, err := cfg.OutputFormat()
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	cfg := &Config{Format: "gif"}
	_, err := cfg.OutputFormat()
	assert.Error(t, err)
}

func TestTransformParams(t *testing.T) {
	tr := Transform{Width: 800, Height: 600, Blur: 1, Sharpen: 1.5, Contrast: 1.2, Brightness: 1.1}
	p := tr.Params()

	require.NoError(t, p.Validate())
	assert.Equal(t, 800, p.Width)
	assert.Equal(t, 1.5, p.Sharpen)
}
