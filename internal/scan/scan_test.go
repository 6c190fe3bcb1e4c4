package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/batch-image-processor/internal/format"
	"github.com/aliskhannn/batch-image-processor/internal/model"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestJobs_FiltersUnsupportedFiles(t *testing.T) {
	inputDir := t.TempDir()
	touch(t, inputDir, "a.jpg")
	touch(t, inputDir, "b.PNG")
	touch(t, inputDir, "notes.txt")
	touch(t, inputDir, "noext")
	require.NoError(t, os.Mkdir(filepath.Join(inputDir, "nested"), 0o755))

	jobs, err := Jobs(inputDir, "out", model.Params{Sharpen: 1, Contrast: 1, Brightness: 1}, "")
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(inputDir, "a.jpg"), jobs[0].InputPath)
	assert.Equal(t, filepath.Join("out", "processed_a.jpg"), jobs[0].OutputPath)
	assert.Equal(t, filepath.Join("out", "processed_b.PNG"), jobs[1].OutputPath)
}

func TestJobs_OverrideRewritesExtension(t *testing.T) {
	inputDir := t.TempDir()
	touch(t, inputDir, "a.jpg")

	jobs, err := Jobs(inputDir, "out", model.Params{Sharpen: 1, Contrast: 1, Brightness: 1}, format.WEBP)
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, filepath.Join("out", "processed_a.webp"), jobs[0].OutputPath)
	assert.Equal(t, format.WEBP, jobs[0].Format)
}

func TestJobs_MissingDirectory(t *testing.T) {
	_, err := Jobs(filepath.Join(t.TempDir(), "nope"), "out", model.Params{}, "")
	assert.Error(t, err)
}

func TestJobs_SharedParams(t *testing.T) {
	inputDir := t.TempDir()
	touch(t, inputDir, "a.jpg")
	touch(t, inputDir, "b.png")

	params := model.Params{Width: 800, Height: 600, Blur: 1, Sharpen: 1.5, Contrast: 1.2, Brightness: 1.1}
	jobs, err := Jobs(inputDir, "out", params, "")
	require.NoError(t, err)

	for _, job := range jobs {
		assert.Equal(t, params, job.Params)
	}
}
